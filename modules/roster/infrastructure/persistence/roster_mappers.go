package persistence

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/modules/roster/infrastructure/persistence/models"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
)

// timestampLayout is fixed-width so stored UTC timestamps compare
// lexicographically in filter clauses.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// resultRecord is one assessment slot inside the JSON column; dates are
// canonical YYYY-MM-DD.
type resultRecord struct {
	Grade string `json:"grade,omitempty"`
	Date  string `json:"date,omitempty"`
}

// encodeAssessment renders the assessment block as a phase/slot grid,
// omitting empty slots.
func encodeAssessment(a serviceman.Assessment) (string, error) {
	grid := make(map[serviceman.Phase]map[serviceman.Slot]resultRecord)
	for _, p := range a.Phases() {
		for _, sl := range a.Slots() {
			r, ok := a.Result(p, sl)
			if !ok || r.IsZero() {
				continue
			}
			rr := resultRecord{Grade: r.Grade}
			if r.Date != nil {
				rr.Date = dateparse.Format(*r.Date)
			}
			if grid[p] == nil {
				grid[p] = make(map[serviceman.Slot]resultRecord)
			}
			grid[p][sl] = rr
		}
	}
	data, err := json.Marshal(grid)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeAssessment rebuilds the category-shaped block from the JSON
// grid. Slots the grid does not mention come back empty; slots outside
// the category's shape are dropped.
func decodeAssessment(cat serviceman.Category, raw string) (serviceman.Assessment, error) {
	grid := make(map[serviceman.Phase]map[serviceman.Slot]resultRecord)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &grid); err != nil {
			return nil, err
		}
	}
	pick := func(p serviceman.Phase, sl serviceman.Slot) serviceman.Result {
		rr, ok := grid[p][sl]
		if !ok {
			return serviceman.Result{}
		}
		out := serviceman.Result{Grade: rr.Grade}
		if rr.Date != "" {
			if d, err := time.Parse(time.DateOnly, rr.Date); err == nil {
				out.Date = &d
			}
		}
		return out
	}

	if cat == serviceman.CategoryRegular {
		return &serviceman.RegularAssessment{WorkYear: serviceman.RegularPhase{
			Fitness:    pick(serviceman.PhaseWorkYear, serviceman.SlotFitness),
			Vocational: pick(serviceman.PhaseWorkYear, serviceman.SlotVocational),
			Advanced:   pick(serviceman.PhaseWorkYear, serviceman.SlotAdvanced),
			Skill:      pick(serviceman.PhaseWorkYear, serviceman.SlotSkill),
		}}, nil
	}
	nsfPhase := func(p serviceman.Phase) serviceman.NSFPhase {
		return serviceman.NSFPhase{
			Fitness:    pick(p, serviceman.SlotFitness),
			Vocational: pick(p, serviceman.SlotVocational),
			Advanced:   pick(p, serviceman.SlotAdvanced),
		}
	}
	return &serviceman.NSFAssessment{
		PhaseOne: nsfPhase(serviceman.PhaseOne),
		PhaseTwo: nsfPhase(serviceman.PhaseTwo),
	}, nil
}

func toDBServiceman(rec *serviceman.Serviceman) (*models.Serviceman, error) {
	assessment, err := encodeAssessment(rec.Assessment())
	if err != nil {
		return nil, err
	}
	return &models.Serviceman{
		Name:            rec.Name(),
		Category:        string(rec.Category()),
		Unit:            rec.Unit(),
		Rank:            rec.Rank(),
		PESStatus:       rec.PESStatus(),
		MedicalStatus:   string(rec.MedicalStatus()),
		ORDDate:         nullDate(rec.ORDDate()),
		WindowOneEnd:    nullDate(rec.WindowOneEnd()),
		WindowTwoEnd:    nullDate(rec.WindowTwoEnd()),
		ServiceComplete: rec.IsServiceComplete(),
		Assessment:      assessment,
		LastUpdatedAt:   rec.LastUpdatedAt().UTC().Format(timestampLayout),
	}, nil
}

func toDomainServiceman(m *models.Serviceman) (*serviceman.Serviceman, error) {
	cat := serviceman.Category(m.Category)
	assessment, err := decodeAssessment(cat, m.Assessment)
	if err != nil {
		return nil, err
	}
	medical, ok := serviceman.ParseMedicalStatus(m.MedicalStatus)
	if !ok {
		medical = serviceman.MedicalFit
	}
	updated, err := time.Parse(timestampLayout, m.LastUpdatedAt)
	if err != nil {
		updated = time.Now().UTC()
	}

	return serviceman.Hydrate(m.Name, cat,
		serviceman.WithUnit(m.Unit),
		serviceman.WithRank(m.Rank),
		serviceman.WithPESStatus(m.PESStatus),
		serviceman.WithMedicalStatus(medical),
		serviceman.WithORDDate(parseNullDate(m.ORDDate)),
		serviceman.WithWindowOneEnd(parseNullDate(m.WindowOneEnd)),
		serviceman.WithWindowTwoEnd(parseNullDate(m.WindowTwoEnd)),
		serviceman.WithServiceComplete(m.ServiceComplete),
		serviceman.WithAssessment(assessment),
		serviceman.WithLastUpdatedAt(updated),
	), nil
}

func toDBAuditEvent(e *audit.Event) *models.AuditEvent {
	details := sql.NullString{}
	if len(e.Details) > 0 {
		details = sql.NullString{String: string(e.Details), Valid: true}
	}
	return &models.AuditEvent{
		ID:        e.ID.String(),
		Actor:     e.Actor,
		Action:    e.Action,
		Subject:   e.Subject,
		Details:   details,
		CreatedAt: e.CreatedAt.UTC().Format(timestampLayout),
	}
}

func toDomainAuditEvent(m *models.AuditEvent) *audit.Event {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		id = uuid.Nil
	}
	created, err := time.Parse(timestampLayout, m.CreatedAt)
	if err != nil {
		created = time.Time{}
	}
	var details json.RawMessage
	if m.Details.Valid && m.Details.String != "" {
		details = json.RawMessage(m.Details.String)
	}
	return &audit.Event{
		ID:        id,
		Actor:     m.Actor,
		Action:    m.Action,
		Subject:   m.Subject,
		Details:   details,
		CreatedAt: created,
	}
}

func nullDate(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: dateparse.Format(*d), Valid: true}
}

func parseNullDate(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := time.Parse(time.DateOnly, ns.String)
	if err != nil {
		return nil
	}
	return &d
}
