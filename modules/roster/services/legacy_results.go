package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
	"github.com/rosterhq/rostertrack/pkg/workbook"
)

// legacySheetHints mark a per-test results sheet inside a workbook.
var legacySheetHints = []string{"RESULT", "LEGACY", "TEST"}

// phaseForDate places a dated legacy result for an NSF serviceman:
// tests sat before July belong to phase one, later tests to phase two.
// This is the convention the legacy sheets were built around and is
// kept exactly as found, month boundary included.
func phaseForDate(d time.Time) serviceman.Phase {
	if d.Month() < time.July {
		return serviceman.PhaseOne
	}
	return serviceman.PhaseTwo
}

func parseSlotLabel(raw string) (serviceman.Slot, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FITNESS":
		return serviceman.SlotFitness, true
	case "VOCATIONAL", "VOCATION":
		return serviceman.SlotVocational, true
	case "ADVANCED", "MARKSMANSHIP":
		return serviceman.SlotAdvanced, true
	case "SKILL":
		return serviceman.SlotSkill, true
	}
	return "", false
}

// IngestLegacyResults merges a per-test results sheet (one test outcome
// per row) into records already in the store. Unknown names are dropped
// with a warning; the legacy path never fabricates records.
func (s *IngestService) IngestLegacyResults(ctx context.Context, source string, rows [][]string) (*ImportReport, error) {
	report := newImportReport()

	start, ok := FindDataStart(rows, s.ingest.HeaderScanRows)
	if !ok {
		report.errorf("no recognizable rows in the legacy results sheet")
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

	touched := make(map[string]*serviceman.Serviceman)
	now := time.Now().UTC()
	for i := start; i < len(rows); i++ {
		row := rows[i]
		class := ClassifyRow(row)
		if class.Kind != RowData {
			if class.Kind == RowNoise {
				report.Skipped++
				report.warnf("row %d skipped: %s", i+1, class.Warning)
			}
			continue
		}

		name := serviceman.NormalizeName(cellAt(row, colName))
		rec, exists := byName[name]
		if !exists {
			report.Skipped++
			report.warnf("row %d: no stored record for %s; legacy result dropped", i+1, name)
			continue
		}

		slot, ok := parseSlotLabel(cellAt(row, legacyColSlot))
		if !ok {
			report.warnf("row %d: unknown test %q", i+1, strings.TrimSpace(cellAt(row, legacyColSlot)))
			continue
		}

		var when *time.Time
		if raw := strings.TrimSpace(cellAt(row, legacyColDate)); raw != "" {
			when = dateparse.Parse(raw)
			if when == nil {
				report.warnf("row %d: unparseable test date %q", i+1, raw)
			} else if err := dateparse.CheckValid(*when, false, now); err != nil {
				report.warnf("row %d: test date %q discarded: %v", i+1, raw, err)
				when = nil
			}
		}

		phase := serviceman.PhaseWorkYear
		if rec.Category() == serviceman.CategoryNSF {
			if when == nil {
				report.warnf("row %d: undated result for %s cannot be phased; dropped", i+1, name)
				continue
			}
			phase = phaseForDate(*when)
		}

		grade, ok := serviceman.NormalizeGrade(slot, cellAt(row, legacyColGrade))
		if !ok {
			report.warnf("row %d: unrecognized %s grade %q ignored", i+1, slot, strings.TrimSpace(cellAt(row, legacyColGrade)))
			continue
		}
		result := serviceman.Result{Grade: grade, Date: when}
		if result.IsZero() {
			continue
		}
		if err := rec.SetResult(phase, slot, result); err != nil {
			report.warnf("row %d: %s result not stored for %s: %v", i+1, slot, name, err)
			continue
		}
		touched[name] = rec
		report.Merged++
	}

	if len(touched) > 0 {
		updated := make([]*serviceman.Serviceman, 0, len(touched))
		for _, rec := range touched {
			updated = append(updated, rec)
		}
		if err := s.repo.Save(ctx, updated); err != nil {
			return report, fmt.Errorf("save records: %w", err)
		}
		report.Records = updated
		s.publisher.Publish(NewImportCompletedEvent(source, report))
	}
	return report, nil
}

// IngestLegacyWorkbook decodes workbook bytes and feeds the results
// sheet through IngestLegacyResults. Sheet selection prefers a
// results-flavored name and falls back to the first sheet.
func (s *IngestService) IngestLegacyWorkbook(ctx context.Context, source string, data []byte) (*ImportReport, error) {
	wb, err := workbook.DecodeAuto(data, s.decode.Background, s.decode.AsyncThreshold)
	if err != nil {
		return nil, fmt.Errorf("decode workbook: %w", err)
	}
	sheet := wb.Sheets[0]
	for _, cand := range wb.Sheets {
		if nameMatchesAny(cand.Name, legacySheetHints) {
			sheet = cand
			break
		}
	}
	return s.IngestLegacyResults(ctx, source, sheet.Rows)
}
