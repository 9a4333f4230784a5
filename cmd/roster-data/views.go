package main

import (
	"fmt"
	"time"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
)

type resultView struct {
	Grade string `json:"grade,omitempty"`
	Date  string `json:"date,omitempty"`
}

type recordView struct {
	Name            string                           `json:"name"`
	Category        string                           `json:"category"`
	Unit            string                           `json:"unit"`
	Rank            string                           `json:"rank,omitempty"`
	PESStatus       string                           `json:"pes_status,omitempty"`
	MedicalStatus   string                           `json:"medical_status"`
	ORDDate         string                           `json:"ord_date,omitempty"`
	WindowOneEnd    string                           `json:"window_one_end,omitempty"`
	WindowTwoEnd    string                           `json:"window_two_end,omitempty"`
	ServiceComplete bool                             `json:"service_complete"`
	Results         map[string]map[string]resultView `json:"results,omitempty"`
	LastUpdatedAt   string                           `json:"last_updated_at"`
}

func toRecordView(rec *serviceman.Serviceman) recordView {
	v := recordView{
		Name:            rec.Name(),
		Category:        string(rec.Category()),
		Unit:            rec.Unit(),
		Rank:            rec.Rank(),
		PESStatus:       rec.PESStatus(),
		MedicalStatus:   string(rec.MedicalStatus()),
		ORDDate:         formatOptionalDate(rec.ORDDate()),
		WindowOneEnd:    formatOptionalDate(rec.WindowOneEnd()),
		WindowTwoEnd:    formatOptionalDate(rec.WindowTwoEnd()),
		ServiceComplete: rec.IsServiceComplete(),
		LastUpdatedAt:   rec.LastUpdatedAt().UTC().Format(time.RFC3339),
	}

	block := rec.Assessment()
	for _, p := range block.Phases() {
		for _, sl := range block.Slots() {
			r, ok := block.Result(p, sl)
			if !ok || r.IsZero() {
				continue
			}
			if v.Results == nil {
				v.Results = make(map[string]map[string]resultView)
			}
			if v.Results[string(p)] == nil {
				v.Results[string(p)] = make(map[string]resultView)
			}
			v.Results[string(p)][string(sl)] = resultView{
				Grade: r.Grade,
				Date:  formatOptionalDate(r.Date),
			}
		}
	}
	return v
}

type auditView struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Subject   string `json:"subject"`
	Details   any    `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toAuditView(ev *audit.Event) auditView {
	v := auditView{
		ID:        ev.ID.String(),
		Actor:     ev.Actor,
		Action:    ev.Action,
		Subject:   ev.Subject,
		CreatedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
	}
	if len(ev.Details) > 0 {
		v.Details = ev.Details
	}
	return v
}

func formatOptionalDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return dateparse.Format(*d)
}

// buildFindParams turns listing flags into repository filters. The unit
// flag goes through the alias resolver so shorthand like "3 PLT" works
// on the command line too.
func buildFindParams(resolver *unit.Resolver, rawUnit, rawCategory string, activeOnly bool) (*serviceman.FindParams, error) {
	params := &serviceman.FindParams{ActiveOnly: activeOnly}
	if rawCategory != "" {
		cat := serviceman.Category(rawCategory)
		if !cat.IsValid() {
			return nil, withCode(exitUsage, fmt.Errorf("unknown category %q (want NSF or Regular)", rawCategory))
		}
		params.Category = cat
	}
	if rawUnit != "" {
		resolved, ok := resolver.Resolve(rawUnit, params.Category)
		if !ok {
			return nil, withCode(exitUsage, fmt.Errorf("cannot resolve unit %q", rawUnit))
		}
		params.Unit = resolved
	}
	return params, nil
}
