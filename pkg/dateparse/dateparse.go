// Package dateparse normalizes the heterogeneous date representations found
// in personnel spreadsheets (numeric serials, compact DDMMYY tokens, slashed
// and dashed day-first strings, ISO dates) into UTC-anchored calendar dates.
package dateparse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Day 0 of the spreadsheet serial scheme.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31 in serial days; values beyond it are not dates.
const maxSerial = 2958465

// MinPlausible is the floor for accepted calendar dates. The compact
// DDMMYY century rule maps two-digit years >= 50 to 19xx, so nothing
// earlier than 1950 can be expressed by the inputs this package accepts.
var MinPlausible = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrTooEarly = errors.New("date before minimum plausible date")
	ErrInFuture = errors.New("date in the future")
)

// fallbackLayouts are tried last, for the occasional hand-typed cell.
var fallbackLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2.1.2006",
	"2006.1.2",
	time.RFC3339,
}

// Parse resolves a raw cell value to a calendar date, or nil when the
// value is empty or not date-like. It never panics.
//
// Accepted forms, in resolution order:
//   - exactly six digits: DDMMYY, two-digit year < 50 -> 20xx, else 19xx;
//   - any other numeric token: spreadsheet serial, days since 1899-12-30 UTC
//     (fractional time-of-day parts are truncated);
//   - DD-MM-YY, DD/MM/YY (two-digit year -> 2000+yy), DD-MM-YYYY,
//     DD/MM/YYYY, YYYY-MM-DD;
//   - a short list of lenient textual layouts.
func Parse(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if len(s) == 6 && allDigits(s) {
		if t, ok := parseCompact(s); ok {
			return &t
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return parseSerial(f)
	}
	if strings.ContainsAny(s, "-/") {
		if t, ok := parseSeparated(s); ok {
			return &t
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := DateOnlyUTC(t)
			return &d
		}
	}
	return nil
}

// Format renders a date in the canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DateOnlyUTC drops the time-of-day component and anchors the date in UTC.
func DateOnlyUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckValid reports why t falls outside the plausible range, or nil.
// Future dates are rejected only when allowFuture is false; completion
// dates disallow them, assessment-window and service-end dates do not.
func CheckValid(t time.Time, allowFuture bool, now time.Time) error {
	d := DateOnlyUTC(t)
	if d.Before(MinPlausible) {
		return ErrTooEarly
	}
	if !allowFuture && d.After(DateOnlyUTC(now)) {
		return ErrInFuture
	}
	return nil
}

func parseCompact(s string) (time.Time, bool) {
	day, _ := strconv.Atoi(s[0:2])
	month, _ := strconv.Atoi(s[2:4])
	yy, _ := strconv.Atoi(s[4:6])
	year := 1900 + yy
	if yy < 50 {
		year = 2000 + yy
	}
	return makeDate(year, month, day)
}

func parseSerial(f float64) *time.Time {
	days := int(f)
	if days <= 0 || days > maxSerial {
		return nil
	}
	t := serialEpoch.AddDate(0, 0, days)
	return &t
}

func parseSeparated(s string) (time.Time, bool) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if !allDigits(parts[i]) || parts[i] == "" {
			return time.Time{}, false
		}
	}

	// A four-digit first part is an ISO date; otherwise day-first.
	if len(parts[0]) == 4 {
		year, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		day, _ := strconv.Atoi(parts[2])
		return makeDate(year, month, day)
	}

	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	if len(parts[2]) <= 2 {
		year += 2000
	}
	return makeDate(year, month, day)
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-02 becomes 03-03); reject that.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
