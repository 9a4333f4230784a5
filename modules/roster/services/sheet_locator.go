package services

import (
	"strings"

	"github.com/rosterhq/rostertrack/pkg/workbook"
)

// primarySheetHints are name fragments that mark a personnel sheet when
// no explicit sheet name is configured.
var primarySheetHints = []string{"NOMINAL", "ROSTER", "PERSONNEL", "NAMELIST", "TRACKING"}

// secondarySheetHints mark the supplemental date sheet.
var secondarySheetHints = []string{"DATE", "ORD", "WINDOW"}

// LocatePrimarySheet picks the personnel sheet out of a workbook: an
// explicitly named sheet first, then a name-hint match, then whichever
// sheet holds the most rank/name-shaped rows. The chosen sheet must
// survive the data-start scan; a workbook with no such sheet has no
// usable roster.
func LocatePrimarySheet(wb *workbook.Workbook, preferred string, scanRows int) (workbook.Sheet, bool) {
	if preferred != "" {
		if rows, ok := wb.Sheet(preferred); ok {
			if _, found := FindDataStart(rows, scanRows); found {
				return workbook.Sheet{Name: preferred, Rows: rows}, true
			}
		}
	}
	for _, s := range wb.Sheets {
		if nameMatchesAny(s.Name, primarySheetHints) {
			if _, found := FindDataStart(s.Rows, scanRows); found {
				return s, true
			}
		}
	}
	var best workbook.Sheet
	bestScore := 0
	for _, s := range wb.Sheets {
		if _, found := FindDataStart(s.Rows, scanRows); !found {
			continue
		}
		score := 0
		for _, row := range s.Rows {
			if rankNameLike(row) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore > 0
}

// LocateSecondarySheet picks the supplemental date sheet: the configured
// name first, then a name-hint match. Absence is not an error; the
// caller ingests without the date join.
func LocateSecondarySheet(wb *workbook.Workbook, preferred, primaryName string) (workbook.Sheet, bool) {
	if preferred != "" {
		if rows, ok := wb.Sheet(preferred); ok && !strings.EqualFold(preferred, primaryName) {
			return workbook.Sheet{Name: preferred, Rows: rows}, true
		}
	}
	for _, s := range wb.Sheets {
		if strings.EqualFold(s.Name, primaryName) {
			continue
		}
		if nameMatchesAny(s.Name, secondarySheetHints) {
			return s, true
		}
	}
	return workbook.Sheet{}, false
}

func nameMatchesAny(name string, hints []string) bool {
	upper := strings.ToUpper(name)
	for _, h := range hints {
		if strings.Contains(upper, h) {
			return true
		}
	}
	return false
}
