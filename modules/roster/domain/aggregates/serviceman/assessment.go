package serviceman

import (
	"strings"
	"time"
)

type Phase string

const (
	PhaseOne      Phase = "phaseOne"
	PhaseTwo      Phase = "phaseTwo"
	PhaseWorkYear Phase = "workYear"
)

type Slot string

const (
	SlotFitness    Slot = "fitness"
	SlotVocational Slot = "vocational"
	SlotAdvanced   Slot = "advanced"
	SlotSkill      Slot = "skill"
)

// Result is one gradable test outcome: the grade plus its completion date.
type Result struct {
	Grade string
	Date  *time.Time
}

func (r Result) IsZero() bool {
	return r.Grade == "" && r.Date == nil
}

// Assessment is the category-shaped block of test results. The two
// implementations below are the only ones; the unexported method seals
// the set, so a Regular record can never be read through the NSF shape
// without an explicit type switch.
type Assessment interface {
	Category() Category
	Phases() []Phase
	Slots() []Slot
	Result(Phase, Slot) (Result, bool)

	set(Phase, Slot, Result) bool
	clone() Assessment
}

// NewAssessment returns the empty, correctly shaped block for a category:
// two triple-slot phases for NSF, one quadruple-slot work year for Regular.
func NewAssessment(cat Category) Assessment {
	if cat == CategoryRegular {
		return &RegularAssessment{}
	}
	return &NSFAssessment{}
}

// NSFPhase holds the three NSF test slots of one phase.
type NSFPhase struct {
	Fitness    Result
	Vocational Result
	Advanced   Result
}

// NSFAssessment is the two-phase NSF variant.
type NSFAssessment struct {
	PhaseOne NSFPhase
	PhaseTwo NSFPhase
}

func (a *NSFAssessment) Category() Category { return CategoryNSF }
func (a *NSFAssessment) Phases() []Phase    { return []Phase{PhaseOne, PhaseTwo} }
func (a *NSFAssessment) Slots() []Slot {
	return []Slot{SlotFitness, SlotVocational, SlotAdvanced}
}

func (a *NSFAssessment) phase(p Phase) *NSFPhase {
	switch p {
	case PhaseOne:
		return &a.PhaseOne
	case PhaseTwo:
		return &a.PhaseTwo
	default:
		return nil
	}
}

func (a *NSFAssessment) Result(p Phase, s Slot) (Result, bool) {
	ph := a.phase(p)
	if ph == nil {
		return Result{}, false
	}
	switch s {
	case SlotFitness:
		return ph.Fitness, true
	case SlotVocational:
		return ph.Vocational, true
	case SlotAdvanced:
		return ph.Advanced, true
	default:
		return Result{}, false
	}
}

func (a *NSFAssessment) set(p Phase, s Slot, r Result) bool {
	ph := a.phase(p)
	if ph == nil {
		return false
	}
	switch s {
	case SlotFitness:
		ph.Fitness = r
	case SlotVocational:
		ph.Vocational = r
	case SlotAdvanced:
		ph.Advanced = r
	default:
		return false
	}
	return true
}

func (a *NSFAssessment) clone() Assessment {
	c := *a
	return &c
}

// RegularPhase holds the four work-year test slots.
type RegularPhase struct {
	Fitness    Result
	Vocational Result
	Advanced   Result
	Skill      Result
}

// RegularAssessment is the single work-year Regular variant.
type RegularAssessment struct {
	WorkYear RegularPhase
}

func (a *RegularAssessment) Category() Category { return CategoryRegular }
func (a *RegularAssessment) Phases() []Phase    { return []Phase{PhaseWorkYear} }
func (a *RegularAssessment) Slots() []Slot {
	return []Slot{SlotFitness, SlotVocational, SlotAdvanced, SlotSkill}
}

func (a *RegularAssessment) Result(p Phase, s Slot) (Result, bool) {
	if p != PhaseWorkYear {
		return Result{}, false
	}
	switch s {
	case SlotFitness:
		return a.WorkYear.Fitness, true
	case SlotVocational:
		return a.WorkYear.Vocational, true
	case SlotAdvanced:
		return a.WorkYear.Advanced, true
	case SlotSkill:
		return a.WorkYear.Skill, true
	default:
		return Result{}, false
	}
}

func (a *RegularAssessment) set(p Phase, s Slot, r Result) bool {
	if p != PhaseWorkYear {
		return false
	}
	switch s {
	case SlotFitness:
		a.WorkYear.Fitness = r
	case SlotVocational:
		a.WorkYear.Vocational = r
	case SlotAdvanced:
		a.WorkYear.Advanced = r
	case SlotSkill:
		a.WorkYear.Skill = r
	default:
		return false
	}
	return true
}

func (a *RegularAssessment) clone() Assessment {
	c := *a
	return &c
}

// gradeVocabulary lists the closed grade set per slot; a stored grade is
// always a member or the empty string.
var gradeVocabulary = map[Slot][]string{
	SlotFitness:    {"Gold", "Silver", "Pass", "Fail"},
	SlotVocational: {"Pass", "Fail"},
	SlotAdvanced:   {"Marksman", "Sharpshooter", "Pass", "Fail"},
	SlotSkill:      {"Pass", "Fail"},
}

// GradeVocabulary returns the valid grades for a slot.
func GradeVocabulary(slot Slot) []string {
	src := gradeVocabulary[slot]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// NormalizeGrade folds a raw cell onto the slot's vocabulary. Empty cells
// and the "NA"/"MISSING" no-value sentinels normalize to the empty string
// with ok=true; ok=false flags text outside the vocabulary.
func NormalizeGrade(slot Slot, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || IsNoValueSentinel(trimmed) {
		return "", true
	}
	for _, g := range gradeVocabulary[slot] {
		if strings.EqualFold(trimmed, g) {
			return g, true
		}
	}
	return "", false
}

// IsNoValueSentinel reports whether raw is one of the placeholder tokens
// that mean "no value" and must never be stored.
func IsNoValueSentinel(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "NA", "N.A.", "N/A", "MISSING":
		return true
	default:
		return false
	}
}
