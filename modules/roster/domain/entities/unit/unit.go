package unit

import (
	"regexp"
	"strings"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
)

// The company roster is a closed set of sub-units. Free text from sheets
// is resolved onto this vocabulary; nothing else is ever stored.
const (
	Platoon1   = "Platoon 1"
	Platoon2   = "Platoon 2"
	Platoon3   = "Platoon 3"
	Platoon4   = "Platoon 4"
	CompanyHQ  = "Company HQ"
	Support    = "Support"
	Unassigned = serviceman.UnitUnassigned
)

var canonical = []string{Platoon1, Platoon2, Platoon3, Platoon4, CompanyHQ, Support, Unassigned}

// Canonical returns the vocabulary in display order.
func Canonical() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

func IsValid(name string) bool {
	for _, u := range canonical {
		if u == name {
			return true
		}
	}
	return false
}

// DefaultFor is where a serviceman lands when no unit can be resolved:
// NSF line troops sit in the first platoon, regulars in company HQ.
func DefaultFor(cat serviceman.Category) string {
	if cat == serviceman.CategoryRegular {
		return CompanyHQ
	}
	return Platoon1
}

var platoonHeaderRe = regexp.MustCompile(`^PLATOON ([1-4])$`)

var headerAliases = map[string]string{
	"COMPANY HQ": CompanyHQ,
	"COY HQ":     CompanyHQ,
	"HQ":         CompanyHQ,
	"SUPPORT":    Support,
}

// MatchSectionHeader matches a cell against the strict section-header
// forms a sheet may use to open a unit block. Anything looser ("PLATOON",
// "PLATOON 5", "HQ ELEMENTS") is deliberately not a header; the classifier
// flags those as noise instead of silently re-homing every row below them.
func MatchSectionHeader(raw string) (string, bool) {
	key := normalizeKey(raw)
	if m := platoonHeaderRe.FindStringSubmatch(key); m != nil {
		return "Platoon " + m[1], true
	}
	if u, ok := headerAliases[key]; ok {
		return u, true
	}
	return "", false
}

var keywordTokens = map[string]bool{
	"PLT": true, "PL": true, "HQ": true, "CHQ": true, "HQS": true,
	"COY": true, "COMPANY": true, "SUPPORT": true, "SPT": true,
}

// KeywordLike reports whether a cell smells like a unit label without
// being a strict header. Used to warn on almost-headers rather than
// mistake them for personnel.
func KeywordLike(raw string) bool {
	key := normalizeKey(raw)
	if key == "" {
		return false
	}
	if strings.Contains(key, "PLATOON") {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if keywordTokens[tok] {
			return true
		}
	}
	return false
}

// SectionLabel is the header text written above a unit's block on export.
// Unassigned rows lead the sheet with no header at all, which is exactly
// the shape the importer maps back to Unassigned.
func SectionLabel(u string) string {
	if u == Unassigned {
		return ""
	}
	return strings.ToUpper(u)
}

// normalizeKey uppercases and collapses runs of whitespace so "  platoon
// 2 " and "PLATOON 2" compare equal.
func normalizeKey(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
}
