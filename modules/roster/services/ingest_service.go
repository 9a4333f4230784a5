package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/pkg/configuration"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
	"github.com/rosterhq/rostertrack/pkg/eventbus"
	"github.com/rosterhq/rostertrack/pkg/workbook"
)

// IngestService turns loosely structured spreadsheet rows into the
// canonical record set: it locates the data, classifies every row,
// extracts per-category results, joins the secondary date sheet and
// merges everything into name-keyed records.
type IngestService struct {
	repo      serviceman.Repository
	publisher eventbus.EventBus
	resolver  *unit.Resolver
	ingest    configuration.IngestOptions
	decode    configuration.DecodeOptions
}

func NewIngestService(
	repo serviceman.Repository,
	publisher eventbus.EventBus,
	resolver *unit.Resolver,
	ingest configuration.IngestOptions,
	decode configuration.DecodeOptions,
) *IngestService {
	return &IngestService{
		repo:      repo,
		publisher: publisher,
		resolver:  resolver,
		ingest:    ingest,
		decode:    decode,
	}
}

// serviceDates is one secondary-sheet entry: the two assessment window
// ends and the ORD date, keyed by normalized name.
type serviceDates struct {
	windowOne *time.Time
	windowTwo *time.Time
	ord       *time.Time
}

// recordSet is the name-keyed working map of one ingestion pass.
// Insertion order is kept so the flattened output is stable.
type recordSet struct {
	byName map[string]*serviceman.Serviceman
	order  []string
}

func newRecordSet() *recordSet {
	return &recordSet{byName: make(map[string]*serviceman.Serviceman)}
}

// upsert returns the record for name, creating it on first sighting
// shaped per cat and homed in the ambient unit (Unassigned when no
// section header has been seen yet).
func (rs *recordSet) upsert(name string, cat serviceman.Category, ambientUnit string) (*serviceman.Serviceman, bool) {
	if rec, ok := rs.byName[name]; ok {
		return rec, false
	}
	u := ambientUnit
	if u == "" {
		u = serviceman.UnitUnassigned
	}
	rec := serviceman.New(name, cat, serviceman.WithUnit(u))
	rs.byName[name] = rec
	rs.order = append(rs.order, name)
	return rec, true
}

func (rs *recordSet) len() int { return len(rs.order) }

func (rs *recordSet) flatten() []*serviceman.Serviceman {
	out := make([]*serviceman.Serviceman, 0, len(rs.order))
	for _, name := range rs.order {
		out = append(out, rs.byName[name])
	}
	return out
}

// rowState is the ambient context threaded through the row fold. The
// current unit comes from the last section header seen and scopes every
// data row until the next header.
type rowState struct {
	unit string
}

// IngestRows runs the full normalization pass over already-decoded
// rows. It is a total function of its input: malformed content becomes
// warnings, never a failure; only the absence of any recognizable
// personnel data puts the run into the failed state.
func (s *IngestService) IngestRows(primary, secondary [][]string) *ImportReport {
	report := newImportReport()

	dates := s.scanSecondary(secondary, report)

	start, ok := FindDataStart(primary, s.ingest.HeaderScanRows)
	if !ok {
		report.errorf("no recognizable personnel rows in the primary sheet")
		return report
	}

	set := newRecordSet()
	st := rowState{}
	// Section headers above the data start still scope the rows below
	// them, so seed the ambient unit from the skipped preamble.
	for _, row := range primary[:start] {
		if c := ClassifyRow(row); c.Kind == RowSectionHeader {
			st.unit = c.Unit
		}
	}
	for i := start; i < len(primary); i++ {
		st = s.foldRow(st, set, report, dates, i, primary[i])
	}

	if set.len() == 0 {
		report.errorf("no personnel records could be extracted from the primary sheet")
		return report
	}

	s.postValidate(set, report)
	report.Records = set.flatten()
	return report
}

// foldRow advances the ambient state by one classified row.
func (s *IngestService) foldRow(st rowState, set *recordSet, report *ImportReport, dates map[string]serviceDates, rowIdx int, row []string) rowState {
	class := ClassifyRow(row)
	switch class.Kind {
	case RowBlank:
		return st
	case RowSectionHeader:
		st.unit = class.Unit
		return st
	case RowNoise:
		report.Skipped++
		report.warnf("row %d skipped: %s", rowIdx+1, class.Warning)
		return st
	}
	s.mergeDataRow(st, set, report, dates, rowIdx, row)
	return st
}

func (s *IngestService) mergeDataRow(st rowState, set *recordSet, report *ImportReport, dates map[string]serviceDates, rowIdx int, row []string) {
	name := serviceman.NormalizeName(cellAt(row, colName))
	if name == "" {
		report.Skipped++
		report.warnf("row %d skipped: name is empty after normalization", rowIdx+1)
		return
	}
	cat := serviceman.ParseCategory(cellAt(row, colService))

	rec, created := set.upsert(name, cat, st.unit)
	if created {
		report.Created++
	} else {
		report.Merged++
		if cat != rec.Category() {
			report.warnf("row %d: service marker %q conflicts with the existing %s record for %s; keeping %s",
				rowIdx+1, cellAt(row, colService), rec.Category(), name, rec.Category())
		}
	}

	rec.ApplyAdmin(cellAt(row, colRank), cellAt(row, colPES))
	if st.unit != "" {
		rec.AssignUnit(st.unit)
	}

	// Result columns follow the record's shape, not the row's marker; a
	// conflicting sighting never writes into the wrong schema.
	for _, b := range resultColumns(rec.Category()) {
		s.applyResultCell(rec, report, rowIdx, b, cellAt(row, b.col))
	}

	if rec.Category() == serviceman.CategoryNSF {
		if d, ok := dates[name]; ok {
			rec.ApplyServiceDates(d.windowOne, d.windowTwo, d.ord)
		}
	}
}

// applyResultCell writes one result column into its assessment slot. A
// cell can carry a grade or the slot's completion date; sentinels and
// blanks are skipped, anything else is warned about and dropped.
func (s *IngestService) applyResultCell(rec *serviceman.Serviceman, report *ImportReport, rowIdx int, b columnBinding, raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || serviceman.IsNoValueSentinel(trimmed) {
		return
	}
	if grade, ok := serviceman.NormalizeGrade(b.slot, trimmed); ok {
		if grade == "" {
			return
		}
		if err := rec.SetResult(b.phase, b.slot, serviceman.Result{Grade: grade}); err != nil {
			report.warnf("row %d: %s result not stored: %v", rowIdx+1, b.slot, err)
		}
		return
	}
	if when := dateparse.Parse(trimmed); when != nil {
		if err := dateparse.CheckValid(*when, false, time.Now().UTC()); err != nil {
			report.warnf("row %d: %s completion date %q discarded: %v", rowIdx+1, b.slot, trimmed, err)
			return
		}
		if err := rec.SetResult(b.phase, b.slot, serviceman.Result{Date: when}); err != nil {
			report.warnf("row %d: %s date not stored: %v", rowIdx+1, b.slot, err)
		}
		return
	}
	report.warnf("row %d: unrecognized %s result %q ignored", rowIdx+1, b.slot, trimmed)
}

// scanSecondary builds the name-keyed date lookup from the secondary
// sheet. A missing or unusable sheet downgrades to a warning; the
// primary ingestion proceeds without the join.
func (s *IngestService) scanSecondary(rows [][]string, report *ImportReport) map[string]serviceDates {
	if len(rows) == 0 {
		return nil
	}
	start, ok := FindDataStart(rows, s.ingest.HeaderScanRows)
	if !ok {
		report.warnf("secondary sheet has no recognizable rows; window and ORD dates not joined")
		return nil
	}
	out := make(map[string]serviceDates)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if !rankNameLike(row) {
			continue
		}
		name := serviceman.NormalizeName(cellAt(row, colName))
		if name == "" {
			continue
		}
		d := serviceDates{
			windowOne: s.parseLookupDate(report, i, "window one", cellAt(row, secColWindowOne)),
			windowTwo: s.parseLookupDate(report, i, "window two", cellAt(row, secColWindowTwo)),
			ord:       s.parseLookupDate(report, i, "ORD", cellAt(row, secColORD)),
		}
		if d.windowOne == nil && d.windowTwo == nil && d.ord == nil {
			continue
		}
		out[name] = d
	}
	return out
}

func (s *IngestService) parseLookupDate(report *ImportReport, rowIdx int, field, raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	when := dateparse.Parse(trimmed)
	if when == nil {
		report.warnf("secondary row %d: unparseable %s date %q", rowIdx+1, field, trimmed)
		return nil
	}
	if err := dateparse.CheckValid(*when, true, time.Now().UTC()); err != nil {
		report.warnf("secondary row %d: %s date %q discarded: %v", rowIdx+1, field, trimmed, err)
		return nil
	}
	return when
}

// postValidate is the final sweep over every record: the unit must sit
// inside the closed vocabulary, the medical status inside its
// enumeration, and every stored date inside the plausibility contract.
func (s *IngestService) postValidate(set *recordSet, report *ImportReport) {
	now := time.Now().UTC()
	for _, name := range set.order {
		rec := set.byName[name]
		if !unit.IsValid(rec.Unit()) {
			fallback := unit.DefaultFor(rec.Category())
			report.warnf("%s: unit %q is outside the vocabulary; reassigned to %s", rec.Name(), rec.Unit(), fallback)
			rec.AssignUnit(fallback)
		}
		if !rec.MedicalStatus().IsValid() {
			rec.SetMedicalStatus(serviceman.MedicalFit)
		}
		if d := rec.ORDDate(); d != nil {
			if err := dateparse.CheckValid(*d, true, now); err != nil {
				report.warnf("%s: ORD date %s discarded: %v", rec.Name(), dateparse.Format(*d), err)
				rec.ClearORDDate()
			}
		}
		if d := rec.WindowOneEnd(); d != nil {
			if err := dateparse.CheckValid(*d, true, now); err != nil {
				report.warnf("%s: window one end %s discarded: %v", rec.Name(), dateparse.Format(*d), err)
				rec.ClearWindowOneEnd()
			}
		}
		if d := rec.WindowTwoEnd(); d != nil {
			if err := dateparse.CheckValid(*d, true, now); err != nil {
				report.warnf("%s: window two end %s discarded: %v", rec.Name(), dateparse.Format(*d), err)
				rec.ClearWindowTwoEnd()
			}
		}
	}
}

// ingestBytes decodes workbook bytes, locates the sheets and runs the
// row pass. Decode failures are errors; everything content-shaped lives
// in the report.
func (s *IngestService) ingestBytes(data []byte) (*ImportReport, error) {
	wb, err := workbook.DecodeAuto(data, s.decode.Background, s.decode.AsyncThreshold)
	if err != nil {
		return nil, fmt.Errorf("decode workbook: %w", err)
	}

	primary, ok := LocatePrimarySheet(wb, s.ingest.PrimarySheet, s.ingest.HeaderScanRows)
	if !ok {
		report := newImportReport()
		report.errorf("no personnel sheet found in workbook (sheets: %s)", strings.Join(wb.SheetNames(), ", "))
		return report, nil
	}

	var secondaryRows [][]string
	secondary, found := LocateSecondarySheet(wb, s.ingest.SecondarySheet, primary.Name)
	if found {
		secondaryRows = secondary.Rows
	}

	report := s.IngestRows(primary.Rows, secondaryRows)
	if !found {
		report.warnf("no secondary date sheet found; window and ORD dates not joined")
	}
	return report, nil
}

// PreviewWorkbook runs the full ingestion without touching the store;
// the report shows what an import would do.
func (s *IngestService) PreviewWorkbook(_ context.Context, data []byte) (*ImportReport, error) {
	return s.ingestBytes(data)
}

// IngestWorkbook ingests spreadsheet bytes and persists the outcome.
// Records already in the store are folded together with their fresh
// sightings under the additive merge rules, so a re-import never
// regresses data the sheet no longer carries.
func (s *IngestService) IngestWorkbook(ctx context.Context, source string, data []byte) (*ImportReport, error) {
	report, err := s.ingestBytes(data)
	if err != nil {
		return nil, err
	}
	if report.Failed() {
		return report, nil
	}

	stored, err := s.repo.GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load existing records: %w", err)
	}
	byName := make(map[string]*serviceman.Serviceman, len(stored))
	for _, rec := range stored {
		byName[rec.Name()] = rec
	}

	final := make([]*serviceman.Serviceman, 0, len(report.Records))
	for _, rec := range report.Records {
		cur, exists := byName[rec.Name()]
		if !exists {
			final = append(final, rec)
			continue
		}
		if cur.Category() != rec.Category() {
			report.warnf("%s: stored record is %s but the sheet says %s; keeping %s",
				rec.Name(), cur.Category(), rec.Category(), cur.Category())
		}
		cur.MergeFrom(rec)
		final = append(final, cur)
		// The sheet saw a first sighting, the store says otherwise.
		report.Created--
		report.Merged++
	}

	if err := s.repo.Save(ctx, final); err != nil {
		return report, fmt.Errorf("save records: %w", err)
	}
	report.Records = final

	s.publisher.Publish(NewImportCompletedEvent(source, report))
	return report, nil
}
