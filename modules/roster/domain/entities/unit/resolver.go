package unit

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
)

const (
	// Queries shorter than this never reach the fuzzy gate; two or three
	// characters fuzzy-match half the vocabulary.
	minFuzzyLen = 4
	// Levenshtein budget for typo'd unit names ("PLATON 2").
	maxFuzzyDistance = 3
)

var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(canonical))
	for _, u := range canonical {
		m[normalizeKey(u)] = u
	}
	return m
}()

// builtinAliases covers the shorthand that shows up in real sheets.
var builtinAliases = map[string]string{
	"COY HQ": CompanyHQ,
	"CHQ":    CompanyHQ,
	"HQS":    CompanyHQ,
	"SPT":    Support,
}

// fuzzyTargets excludes Unassigned: a typo should never resolve to the
// catch-all bucket.
var fuzzyTargets = []string{Platoon1, Platoon2, Platoon3, Platoon4, CompanyHQ, Support}

// Resolver folds free-text unit labels onto the canonical vocabulary.
type Resolver struct {
	aliases map[string]string
}

type ResolverOption func(*Resolver)

// WithAliases extends the alias table; keys are raw alias text, values
// canonical units.
func WithAliases(extra map[string]string) ResolverOption {
	return func(r *Resolver) {
		for alias, u := range extra {
			if key := normalizeKey(alias); key != "" {
				r.aliases[key] = u
			}
		}
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{aliases: make(map[string]string, len(builtinAliases))}
	for key, u := range builtinAliases {
		r.aliases[key] = u
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadAliasFile merges alias rules from a YAML file shaped as
//
//	aliases:
//	  Platoon 3: ["3rd platoon", "third platoon"]
//
// Keys must be canonical units.
func (r *Resolver) LoadAliasFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read alias rules: %w", err)
	}
	var f struct {
		Aliases map[string][]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse alias rules %s: %w", path, err)
	}
	for u, aliases := range f.Aliases {
		if !IsValid(u) {
			return fmt.Errorf("alias rules %s: unknown unit %q", path, u)
		}
		for _, alias := range aliases {
			if key := normalizeKey(alias); key != "" {
				r.aliases[key] = u
			}
		}
	}
	return nil
}

// Resolve maps raw text to a canonical unit. The bool reports whether a
// rule matched; on false the category default is returned and the caller
// should surface a warning.
func (r *Resolver) Resolve(raw string, cat serviceman.Category) (string, bool) {
	key := normalizeKey(raw)
	if key == "" {
		return DefaultFor(cat), false
	}
	if u, ok := canonicalByKey[key]; ok {
		return u, true
	}
	if u, ok := r.aliases[key]; ok {
		return u, true
	}
	if looksLikeHQ(key) {
		return CompanyHQ, true
	}
	if looksLikeSupport(key) {
		return Support, true
	}
	n, ok, sawPlatoon := platoonNumber(key)
	if ok {
		return "Platoon " + strconv.Itoa(n), true
	}
	if sawPlatoon {
		if n == 0 {
			// A bare platoon keyword with no number at all reads as the
			// first platoon, the sheets' own shorthand.
			return Platoon1, true
		}
		// An out-of-range platoon number never resolves; it must not
		// reach the fuzzy gate, where "PLATOON 5" would sit one edit
		// away from every real platoon.
		return DefaultFor(cat), false
	}
	if len(key) >= minFuzzyLen {
		ranks := fuzzy.RankFindNormalizedFold(key, fuzzyTargets)
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})
		if len(ranks) > 0 && ranks[0].Distance <= maxFuzzyDistance {
			return fuzzyTargets[ranks[0].OriginalIndex], true
		}
	}
	return DefaultFor(cat), false
}

func looksLikeHQ(key string) bool {
	if strings.Contains(key, "COY") || strings.Contains(key, "COMPANY") {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if tok == "HQ" || tok == "CHQ" || tok == "HQS" {
			return true
		}
	}
	return false
}

func looksLikeSupport(key string) bool {
	if strings.Contains(key, "SUPPORT") {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if tok == "SPT" {
			return true
		}
	}
	return false
}

// platoonNumber pulls a platoon index out of text like "3 PLT",
// "PLATOON TWO" or "PL2". n is the number seen (0 when none); ok only
// when it names a real platoon.
func platoonNumber(key string) (n int, ok bool, sawKeyword bool) {
	var num int
	for _, tok := range strings.Fields(key) {
		if tok == "PLATOON" || tok == "PLT" || tok == "PL" {
			sawKeyword = true
			continue
		}
		if v, glued := platoonPrefixNumber(tok); glued {
			sawKeyword = true
			if num == 0 {
				num = v
			}
			continue
		}
		if v, isNum := numberToken(tok); isNum && num == 0 {
			num = v
		}
	}
	if !sawKeyword || num < 1 || num > 4 {
		return num, false, sawKeyword
	}
	return num, true, true
}

// platoonPrefixNumber handles glued forms: PL2, PLT3, PLATOON4.
func platoonPrefixNumber(tok string) (int, bool) {
	for _, prefix := range []string{"PLATOON", "PLT", "PL"} {
		rest, found := strings.CutPrefix(tok, prefix)
		if !found || rest == "" {
			continue
		}
		if n, ok := numberToken(rest); ok {
			return n, true
		}
	}
	return 0, false
}

var wordNumbers = map[string]int{"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4}

// numberToken accepts digits, ordinals (3RD) and number words (TWO).
func numberToken(tok string) (int, bool) {
	if n, ok := wordNumbers[tok]; ok {
		return n, true
	}
	for _, suffix := range []string{"ST", "ND", "RD", "TH"} {
		if before, found := strings.CutSuffix(tok, suffix); found && before != "" {
			tok = before
			break
		}
	}
	if !allDigits(tok) {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
