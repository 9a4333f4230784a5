package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
	"github.com/rosterhq/rostertrack/pkg/eventbus"
	"github.com/rosterhq/rostertrack/pkg/workbook"
)

const (
	exportPrimarySheet   = "Personnel"
	exportSecondarySheet = "Dates"
)

// ExportService renders the roster back into workbook form using the
// same column contract the importer reads, so an exported file
// re-imports cleanly.
type ExportService struct {
	repo      serviceman.Repository
	publisher eventbus.EventBus
}

func NewExportService(repo serviceman.Repository, publisher eventbus.EventBus) *ExportService {
	return &ExportService{
		repo:      repo,
		publisher: publisher,
	}
}

// Export builds workbook bytes for the records matching params: the
// personnel sheet grouped by unit, plus a date sheet for records
// carrying window or ORD dates.
func (s *ExportService) Export(ctx context.Context, destination string, params *serviceman.FindParams) (*bytes.Buffer, int, error) {
	records, err := s.repo.Find(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	primary, secondary := BuildRows(records)
	wb := &workbook.Workbook{Sheets: []workbook.Sheet{{Name: exportPrimarySheet, Rows: primary}}}
	if len(secondary) > 1 {
		wb.Sheets = append(wb.Sheets, workbook.Sheet{Name: exportSecondarySheet, Rows: secondary})
	}

	buf, err := workbook.Encode(wb)
	if err != nil {
		return nil, 0, fmt.Errorf("encode workbook: %w", err)
	}
	s.publisher.Publish(NewExportCompletedEvent(destination, len(records)))
	return buf, len(records), nil
}

// BuildRows renders records into the primary and secondary sheet
// layouts. Unassigned records lead the personnel sheet with no section
// header, which is the shape the importer maps back to Unassigned; every
// other unit opens with its strict section header.
func BuildRows(records []*serviceman.Serviceman) (primary, secondary [][]string) {
	groups := make(map[string][]*serviceman.Serviceman)
	var unassigned []*serviceman.Serviceman
	for _, rec := range records {
		u := rec.Unit()
		if u == unit.Unassigned || !unit.IsValid(u) {
			unassigned = append(unassigned, rec)
			continue
		}
		groups[u] = append(groups[u], rec)
	}

	primary = [][]string{primaryHeaderRow()}
	for _, rec := range unassigned {
		primary = append(primary, recordRow(rec))
	}
	for _, u := range unit.Canonical() {
		members := groups[u]
		if len(members) == 0 {
			continue
		}
		primary = append(primary, []string{unit.SectionLabel(u)})
		for _, rec := range members {
			primary = append(primary, recordRow(rec))
		}
	}

	secondary = [][]string{secondaryHeaderRow()}
	for _, rec := range records {
		if rec.WindowOneEnd() == nil && rec.WindowTwoEnd() == nil && rec.ORDDate() == nil {
			continue
		}
		secondary = append(secondary, dateRow(rec))
	}
	return primary, secondary
}

func primaryHeaderRow() []string {
	row := make([]string, primaryColumnCount)
	row[colUnitLabel] = "UNIT"
	row[colRank] = "RANK"
	row[colName] = "NAME"
	row[colPES] = "PES"
	row[colService] = "SERVICE"
	labels := map[serviceman.Phase]string{
		serviceman.PhaseOne:      "P1",
		serviceman.PhaseTwo:      "P2",
		serviceman.PhaseWorkYear: "WY",
	}
	for _, b := range nsfResultColumns {
		row[b.col] = fmt.Sprintf("%s %s", labels[b.phase], slotTitle(b.slot))
	}
	for _, b := range regularResultColumns {
		row[b.col] = fmt.Sprintf("%s %s", labels[b.phase], slotTitle(b.slot))
	}
	return row
}

func slotTitle(slot serviceman.Slot) string {
	switch slot {
	case serviceman.SlotFitness:
		return "FITNESS"
	case serviceman.SlotVocational:
		return "VOCATIONAL"
	case serviceman.SlotAdvanced:
		return "ADVANCED"
	default:
		return "SKILL"
	}
}

func secondaryHeaderRow() []string {
	row := make([]string, secondaryColumnCount)
	row[colRank] = "RANK"
	row[colName] = "NAME"
	row[secColWindowOne] = "WINDOW 1 END"
	row[secColWindowTwo] = "WINDOW 2 END"
	row[secColORD] = "ORD"
	return row
}

func recordRow(rec *serviceman.Serviceman) []string {
	row := make([]string, primaryColumnCount)
	row[colRank] = rec.Rank()
	row[colName] = rec.Name()
	row[colPES] = rec.PESStatus()
	row[colService] = serviceMarker(rec.Category())
	for _, b := range resultColumns(rec.Category()) {
		if r, ok := rec.Result(b.phase, b.slot); ok {
			row[b.col] = renderResult(r)
		}
	}
	return row
}

func dateRow(rec *serviceman.Serviceman) []string {
	row := make([]string, secondaryColumnCount)
	row[colRank] = rec.Rank()
	row[colName] = rec.Name()
	row[secColWindowOne] = formatDate(rec.WindowOneEnd())
	row[secColWindowTwo] = formatDate(rec.WindowTwoEnd())
	row[secColORD] = formatDate(rec.ORDDate())
	return row
}

func serviceMarker(cat serviceman.Category) string {
	if cat == serviceman.CategoryRegular {
		return "REG"
	}
	return "NSF"
}

// renderResult writes the grade when one is stored, otherwise the
// completion date; a cell can only carry one of the two.
func renderResult(r serviceman.Result) string {
	if r.Grade != "" {
		return r.Grade
	}
	return formatDate(r.Date)
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return dateparse.Format(*d)
}
