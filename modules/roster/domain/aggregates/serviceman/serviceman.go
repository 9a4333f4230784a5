package serviceman

import (
	"errors"
	"strings"
	"time"
)

// UnitUnassigned is the construction default before any section context or
// resolver output is applied.
const UnitUnassigned = "Unassigned"

// maxNameLength caps normalized merge keys.
const maxNameLength = 64

var ErrInvalidSlot = errors.New("slot not available for category")

// Serviceman is one tracked person. The normalized name is the merge key
// and is immutable after construction; all other fields merge additively
// (blanks never erase populated values).
type Serviceman struct {
	name            string
	category        Category
	unit            string
	rank            string
	pesStatus       string
	medicalStatus   MedicalStatus
	ordDate         *time.Time
	windowOneEnd    *time.Time
	windowTwoEnd    *time.Time
	assessment      Assessment
	lastUpdatedAt   time.Time
	serviceComplete bool
}

type Option func(*Serviceman)

func WithUnit(unit string) Option {
	return func(s *Serviceman) {
		if unit != "" {
			s.unit = unit
		}
	}
}

func WithRank(rank string) Option {
	return func(s *Serviceman) { s.rank = rank }
}

func WithPESStatus(pes string) Option {
	return func(s *Serviceman) { s.pesStatus = pes }
}

func WithMedicalStatus(ms MedicalStatus) Option {
	return func(s *Serviceman) { s.medicalStatus = ms }
}

func WithORDDate(d *time.Time) Option {
	return func(s *Serviceman) { s.ordDate = d }
}

func WithWindowOneEnd(d *time.Time) Option {
	return func(s *Serviceman) { s.windowOneEnd = d }
}

func WithWindowTwoEnd(d *time.Time) Option {
	return func(s *Serviceman) { s.windowTwoEnd = d }
}

func WithAssessment(a Assessment) Option {
	return func(s *Serviceman) {
		if a != nil {
			s.assessment = a
		}
	}
}

func WithLastUpdatedAt(t time.Time) Option {
	return func(s *Serviceman) { s.lastUpdatedAt = t }
}

func WithServiceComplete(complete bool) Option {
	return func(s *Serviceman) { s.serviceComplete = complete }
}

// New creates a record on first sighting. The name is normalized into the
// merge key; the assessment block is shaped by category.
func New(name string, category Category, opts ...Option) *Serviceman {
	if !category.IsValid() {
		category = CategoryNSF
	}
	s := &Serviceman{
		name:          NormalizeName(name),
		category:      category,
		unit:          UnitUnassigned,
		medicalStatus: MedicalFit,
		assessment:    NewAssessment(category),
		lastUpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate rebuilds a record from storage without re-normalizing or
// re-stamping anything; options carry the persisted field values.
func Hydrate(name string, category Category, opts ...Option) *Serviceman {
	s := &Serviceman{
		name:          name,
		category:      category,
		unit:          UnitUnassigned,
		medicalStatus: MedicalFit,
		assessment:    NewAssessment(category),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Serviceman) Name() string                 { return s.name }
func (s *Serviceman) Category() Category           { return s.category }
func (s *Serviceman) Unit() string                 { return s.unit }
func (s *Serviceman) Rank() string                 { return s.rank }
func (s *Serviceman) PESStatus() string            { return s.pesStatus }
func (s *Serviceman) MedicalStatus() MedicalStatus { return s.medicalStatus }
func (s *Serviceman) ORDDate() *time.Time          { return s.ordDate }
func (s *Serviceman) WindowOneEnd() *time.Time     { return s.windowOneEnd }
func (s *Serviceman) WindowTwoEnd() *time.Time     { return s.windowTwoEnd }
func (s *Serviceman) LastUpdatedAt() time.Time     { return s.lastUpdatedAt }
func (s *Serviceman) IsServiceComplete() bool      { return s.serviceComplete }

// Assessment returns a copy of the assessment block; mutations go through
// SetResult so the update stamp stays accurate.
func (s *Serviceman) Assessment() Assessment {
	return s.assessment.clone()
}

// Result reads one slot directly.
func (s *Serviceman) Result(p Phase, sl Slot) (Result, bool) {
	return s.assessment.Result(p, sl)
}

// ApplyAdmin merges administrative fields: a non-empty incoming value
// overwrites, an empty one leaves the stored value alone.
func (s *Serviceman) ApplyAdmin(rank, pes string) {
	changed := false
	if v := strings.TrimSpace(rank); v != "" {
		s.rank = v
		changed = true
	}
	if v := strings.TrimSpace(pes); v != "" {
		s.pesStatus = v
		changed = true
	}
	if changed {
		s.touch()
	}
}

// AssignUnit overwrites the unit with a non-empty value (last-non-empty-wins).
func (s *Serviceman) AssignUnit(unit string) {
	if unit == "" {
		return
	}
	s.unit = unit
	s.touch()
}

func (s *Serviceman) SetMedicalStatus(ms MedicalStatus) {
	if !ms.IsValid() {
		ms = MedicalFit
	}
	s.medicalStatus = ms
	s.touch()
}

// SetResult writes one assessment slot. Grade and completion date merge
// independently: a non-empty grade overwrites the stored grade, a non-nil
// date overwrites the stored date, and a blank side never erases what is
// already there.
func (s *Serviceman) SetResult(p Phase, sl Slot, r Result) error {
	cur, ok := s.assessment.Result(p, sl)
	if !ok {
		return ErrInvalidSlot
	}
	if r.IsZero() {
		return nil
	}
	if r.Grade != "" {
		cur.Grade = r.Grade
	}
	if r.Date != nil {
		cur.Date = r.Date
	}
	s.assessment.set(p, sl, cur)
	s.touch()
	return nil
}

// ApplyServiceDates merges the secondary-sheet date fields. Only supplied
// (non-nil) dates overwrite; a missing phase-two window mirrors the ORD
// date, since the later assessment window closes when service does.
func (s *Serviceman) ApplyServiceDates(windowOne, windowTwo, ord *time.Time) {
	changed := false
	if windowOne != nil {
		s.windowOneEnd = windowOne
		changed = true
	}
	if windowTwo == nil {
		windowTwo = ord
	}
	if windowTwo != nil {
		s.windowTwoEnd = windowTwo
		changed = true
	}
	if ord != nil {
		s.ordDate = ord
		changed = true
	}
	if changed {
		s.touch()
	}
}

// MergeFrom folds a fresh sighting of the same person into this record
// under the additive merge rules: administrative fields last-non-empty-
// wins, assessment slots and service dates fill in but never blank out.
// Assessment results only merge when the categories agree; the stored
// shape is never reshaped by a conflicting sighting.
func (s *Serviceman) MergeFrom(in *Serviceman) {
	if in == nil {
		return
	}
	s.ApplyAdmin(in.Rank(), in.PESStatus())
	if u := in.Unit(); u != "" && u != UnitUnassigned {
		s.AssignUnit(u)
	}
	if s.category == in.Category() {
		a := in.Assessment()
		for _, p := range a.Phases() {
			for _, sl := range a.Slots() {
				if r, ok := a.Result(p, sl); ok && !r.IsZero() {
					_ = s.SetResult(p, sl, r)
				}
			}
		}
	}
	s.ApplyServiceDates(in.WindowOneEnd(), in.WindowTwoEnd(), in.ORDDate())
	if in.IsServiceComplete() {
		s.MarkServiceComplete()
	}
}

// ClearORDDate discards an implausible service-end date; the mirrored
// window is left to the caller's validation pass.
func (s *Serviceman) ClearORDDate() {
	s.ordDate = nil
	s.touch()
}

func (s *Serviceman) ClearWindowOneEnd() {
	s.windowOneEnd = nil
	s.touch()
}

func (s *Serviceman) ClearWindowTwoEnd() {
	s.windowTwoEnd = nil
	s.touch()
}

func (s *Serviceman) MarkServiceComplete() {
	s.serviceComplete = true
	s.touch()
}

func (s *Serviceman) touch() {
	s.lastUpdatedAt = time.Now().UTC()
}

// NormalizeName produces the merge key: trimmed, upper-cased, stripped of
// everything but letters, digits, spaces, slashes and hyphens, whitespace
// collapsed, capped at 64 runes.
func NormalizeName(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(upper))
	lastSpace := false
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '/', r == '-':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	name := strings.TrimRight(b.String(), " ")
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name
}
