package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/pkg/workbook"
)

func TestPhaseForDate(t *testing.T) {
	cases := []struct {
		month time.Month
		want  serviceman.Phase
	}{
		{time.January, serviceman.PhaseOne},
		{time.June, serviceman.PhaseOne},
		{time.July, serviceman.PhaseTwo},
		{time.December, serviceman.PhaseTwo},
	}
	for _, tc := range cases {
		got := phaseForDate(time.Date(2025, tc.month, 15, 0, 0, 0, 0, time.UTC))
		require.Equal(t, tc.want, got, "month %s", tc.month)
	}
}

func TestParseSlotLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want serviceman.Slot
		ok   bool
	}{
		{"FITNESS", serviceman.SlotFitness, true},
		{"fitness ", serviceman.SlotFitness, true},
		{"Vocational", serviceman.SlotVocational, true},
		{"VOCATION", serviceman.SlotVocational, true},
		{"ADVANCED", serviceman.SlotAdvanced, true},
		{"Marksmanship", serviceman.SlotAdvanced, true},
		{"SKILL", serviceman.SlotSkill, true},
		{"SWIMMING", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseSlotLabel(tc.raw)
		require.Equal(t, tc.ok, ok, "label %q", tc.raw)
		require.Equal(t, tc.want, got)
	}
}

func seedRecord(t *testing.T, repo *memRepo, name string, cat serviceman.Category) *serviceman.Serviceman {
	t.Helper()
	rec := serviceman.New(name, cat, serviceman.WithRank("SGT"))
	require.NoError(t, repo.Save(context.Background(), []*serviceman.Serviceman{rec}))
	return rec
}

func TestIngestLegacyResults_PhasesNSFResultsByDate(t *testing.T) {
	repo := newMemRepo()
	svc, pub := testIngestService(repo)
	seedRecord(t, repo, "TAN WEI", serviceman.CategoryNSF)

	rows := [][]string{
		{"", "RANK", "NAME", "TEST", "GRADE", "DATE"},
		{"", "SGT", "TAN WEI", "FITNESS", "Gold", "14-03-25"},
		{"", "SGT", "TAN WEI", "FITNESS", "Silver", "14-11-25"},
	}
	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", rows)
	require.NoError(t, err)
	require.False(t, report.Failed())
	require.Equal(t, 2, report.Merged)
	require.Len(t, report.Records, 1)

	rec, err := repo.GetByName(context.Background(), "TAN WEI")
	require.NoError(t, err)

	march := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	november := time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC)

	p1, _ := rec.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.Equal(t, "Gold", p1.Grade)
	requireSameDate(t, &march, p1.Date)

	p2, _ := rec.Result(serviceman.PhaseTwo, serviceman.SlotFitness)
	require.Equal(t, "Silver", p2.Grade)
	requireSameDate(t, &november, p2.Date)

	require.Len(t, pub.events, 1)
	evt, ok := pub.events[0].(*ImportCompletedEvent)
	require.True(t, ok)
	require.Equal(t, "legacy.xlsx", evt.Source)
}

func TestIngestLegacyResults_UndatedNSFResultDropped(t *testing.T) {
	repo := newMemRepo()
	svc, pub := testIngestService(repo)
	seedRecord(t, repo, "TAN WEI", serviceman.CategoryNSF)

	rows := [][]string{
		{"", "SGT", "TAN WEI", "FITNESS", "Gold", ""},
	}
	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", rows)
	require.NoError(t, err)
	require.Zero(t, report.Merged)
	require.NotEmpty(t, report.Warnings)
	require.Empty(t, pub.events)

	rec, err := repo.GetByName(context.Background(), "TAN WEI")
	require.NoError(t, err)
	p1, _ := rec.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, p1.IsZero())
}

func TestIngestLegacyResults_RegularGoesToWorkYear(t *testing.T) {
	repo := newMemRepo()
	svc, _ := testIngestService(repo)
	seedRecord(t, repo, "GOH SENG", serviceman.CategoryRegular)

	rows := [][]string{
		{"", "CPT", "GOH SENG", "SKILL", "Pass", ""},
	}
	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", rows)
	require.NoError(t, err)
	require.Equal(t, 1, report.Merged)

	rec, err := repo.GetByName(context.Background(), "GOH SENG")
	require.NoError(t, err)
	r, ok := rec.Result(serviceman.PhaseWorkYear, serviceman.SlotSkill)
	require.True(t, ok)
	require.Equal(t, "Pass", r.Grade)
}

func TestIngestLegacyResults_UnknownNameNeverFabricates(t *testing.T) {
	repo := newMemRepo()
	svc, _ := testIngestService(repo)

	rows := [][]string{
		{"", "SGT", "TAN WEI", "FITNESS", "Gold", "14-03-25"},
	}
	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", rows)
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.NotEmpty(t, report.Warnings)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIngestLegacyResults_UnknownTestWarns(t *testing.T) {
	repo := newMemRepo()
	svc, _ := testIngestService(repo)
	seedRecord(t, repo, "TAN WEI", serviceman.CategoryNSF)

	rows := [][]string{
		{"", "SGT", "TAN WEI", "SWIMMING", "Gold", "14-03-25"},
	}
	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", rows)
	require.NoError(t, err)
	require.Zero(t, report.Merged)
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "SWIMMING")
}

func TestIngestLegacyResults_EmptySheet(t *testing.T) {
	repo := newMemRepo()
	svc, _ := testIngestService(repo)

	report, err := svc.IngestLegacyResults(context.Background(), "legacy.xlsx", [][]string{
		{"archived results"},
	})
	require.NoError(t, err)
	require.True(t, report.Failed())
	require.Empty(t, report.Records)
}

func TestIngestLegacyWorkbook_PicksResultsSheet(t *testing.T) {
	repo := newMemRepo()
	svc, _ := testIngestService(repo)
	seedRecord(t, repo, "TAN WEI", serviceman.CategoryNSF)

	buf, err := workbook.Encode(&workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Summary", Rows: [][]string{{"roster overview"}}},
		{Name: "Test Results", Rows: [][]string{
			{"", "SGT", "TAN WEI", "FITNESS", "Gold", "14-03-25"},
		}},
	}})
	require.NoError(t, err)

	report, err := svc.IngestLegacyWorkbook(context.Background(), "legacy.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, report.Merged)

	rec, err := repo.GetByName(context.Background(), "TAN WEI")
	require.NoError(t, err)
	p1, _ := rec.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.Equal(t, "Gold", p1.Grade)
}
