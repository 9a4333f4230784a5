package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/pkg/configuration"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(configuration.StoreOptions{
		Path:        filepath.Join(t.TempDir(), "roster.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fullNSFRecord(t *testing.T) *serviceman.Serviceman {
	t.Helper()
	rec := serviceman.Hydrate("TAN WEI", serviceman.CategoryNSF,
		serviceman.WithUnit("Platoon 2"),
		serviceman.WithRank("SGT"),
		serviceman.WithPESStatus("A1"),
		serviceman.WithMedicalStatus(serviceman.MedicalLightDuty),
		serviceman.WithORDDate(date(2025, time.November, 14)),
		serviceman.WithWindowOneEnd(date(2025, time.March, 14)),
		serviceman.WithWindowTwoEnd(date(2025, time.November, 14)),
		serviceman.WithLastUpdatedAt(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)),
	)
	require.NoError(t, rec.SetResult(serviceman.PhaseOne, serviceman.SlotFitness,
		serviceman.Result{Grade: "Gold", Date: date(2025, time.February, 3)}))
	require.NoError(t, rec.SetResult(serviceman.PhaseOne, serviceman.SlotVocational,
		serviceman.Result{Grade: "Pass"}))
	require.NoError(t, rec.SetResult(serviceman.PhaseTwo, serviceman.SlotAdvanced,
		serviceman.Result{Grade: "Marksman", Date: date(2025, time.September, 20)}))
	return rec
}

func TestRosterRepository_SaveAndGetByName(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	want := fullNSFRecord(t)
	require.NoError(t, repo.Save(ctx, []*serviceman.Serviceman{want}))

	got, err := repo.GetByName(ctx, "TAN WEI")
	require.NoError(t, err)

	require.Equal(t, want.Name(), got.Name())
	require.Equal(t, serviceman.CategoryNSF, got.Category())
	require.Equal(t, "Platoon 2", got.Unit())
	require.Equal(t, "SGT", got.Rank())
	require.Equal(t, "A1", got.PESStatus())
	require.Equal(t, serviceman.MedicalLightDuty, got.MedicalStatus())
	require.False(t, got.IsServiceComplete())

	require.NotNil(t, got.ORDDate())
	require.True(t, got.ORDDate().Equal(*want.ORDDate()))
	require.NotNil(t, got.WindowOneEnd())
	require.True(t, got.WindowOneEnd().Equal(*want.WindowOneEnd()))
	require.NotNil(t, got.WindowTwoEnd())
	require.True(t, got.WindowTwoEnd().Equal(*want.WindowTwoEnd()))
	require.True(t, got.LastUpdatedAt().Equal(want.LastUpdatedAt()))

	fit, ok := got.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Gold", fit.Grade)
	require.NotNil(t, fit.Date)
	require.True(t, fit.Date.Equal(*date(2025, time.February, 3)))

	voc, ok := got.Result(serviceman.PhaseOne, serviceman.SlotVocational)
	require.True(t, ok)
	require.Equal(t, "Pass", voc.Grade)
	require.Nil(t, voc.Date)

	adv, ok := got.Result(serviceman.PhaseTwo, serviceman.SlotAdvanced)
	require.True(t, ok)
	require.Equal(t, "Marksman", adv.Grade)

	p2fit, ok := got.Result(serviceman.PhaseTwo, serviceman.SlotFitness)
	require.True(t, ok)
	require.True(t, p2fit.IsZero())
}

func TestRosterRepository_RegularRoundTrip(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	rec := serviceman.Hydrate("GOH SENG HUAT", serviceman.CategoryRegular,
		serviceman.WithRank("1SG"),
		serviceman.WithLastUpdatedAt(time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)),
	)
	require.NoError(t, rec.SetResult(serviceman.PhaseWorkYear, serviceman.SlotSkill,
		serviceman.Result{Grade: "Pass", Date: date(2025, time.June, 1)}))
	require.NoError(t, repo.Save(ctx, []*serviceman.Serviceman{rec}))

	got, err := repo.GetByName(ctx, "GOH SENG HUAT")
	require.NoError(t, err)
	require.Equal(t, serviceman.CategoryRegular, got.Category())

	skill, ok := got.Result(serviceman.PhaseWorkYear, serviceman.SlotSkill)
	require.True(t, ok)
	require.Equal(t, "Pass", skill.Grade)
	require.NotNil(t, skill.Date)

	_, ok = got.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.False(t, ok)
}

func TestRosterRepository_GetByName_NotFound(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))

	_, err := repo.GetByName(context.Background(), "NOBODY HERE")
	require.ErrorIs(t, err, serviceman.ErrNotFound)
}

func TestRosterRepository_SaveUpserts(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	rec := fullNSFRecord(t)
	require.NoError(t, repo.Save(ctx, []*serviceman.Serviceman{rec}))

	rec.AssignUnit("Support")
	require.NoError(t, rec.SetResult(serviceman.PhaseTwo, serviceman.SlotFitness,
		serviceman.Result{Grade: "Silver"}))
	require.NoError(t, repo.Save(ctx, []*serviceman.Serviceman{rec}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	got, err := repo.GetByName(ctx, "TAN WEI")
	require.NoError(t, err)
	require.Equal(t, "Support", got.Unit())
	p2fit, ok := got.Result(serviceman.PhaseTwo, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Silver", p2fit.Grade)
}

func TestRosterRepository_SaveEmptyBatch(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	require.NoError(t, repo.Save(context.Background(), nil))
}

func TestRosterRepository_GetAllOrdersByName(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	batch := []*serviceman.Serviceman{
		serviceman.New("ONG KAI", serviceman.CategoryNSF, serviceman.WithRank("PTE")),
		serviceman.New("ANG MO", serviceman.CategoryNSF, serviceman.WithRank("CPL")),
		serviceman.New("LIM BOON", serviceman.CategoryRegular, serviceman.WithRank("2SG")),
	}
	require.NoError(t, repo.Save(ctx, batch))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "ANG MO", all[0].Name())
	require.Equal(t, "LIM BOON", all[1].Name())
	require.Equal(t, "ONG KAI", all[2].Name())
}

func TestRosterRepository_FindFilters(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	done := serviceman.New("ONG KAI", serviceman.CategoryNSF,
		serviceman.WithUnit("Platoon 1"), serviceman.WithRank("PTE"))
	done.MarkServiceComplete()
	batch := []*serviceman.Serviceman{
		done,
		serviceman.New("ANG MO", serviceman.CategoryNSF,
			serviceman.WithUnit("Platoon 1"), serviceman.WithRank("CPL")),
		serviceman.New("LIM BOON", serviceman.CategoryRegular,
			serviceman.WithUnit("Support"), serviceman.WithRank("2SG")),
	}
	require.NoError(t, repo.Save(ctx, batch))

	byUnit, err := repo.Find(ctx, &serviceman.FindParams{Unit: "Platoon 1"})
	require.NoError(t, err)
	require.Len(t, byUnit, 2)

	byCategory, err := repo.Find(ctx, &serviceman.FindParams{Category: serviceman.CategoryRegular})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "LIM BOON", byCategory[0].Name())

	active, err := repo.Find(ctx, &serviceman.FindParams{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, rec := range active {
		require.False(t, rec.IsServiceComplete())
	}

	activeInUnit, err := repo.Find(ctx, &serviceman.FindParams{Unit: "Platoon 1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, activeInUnit, 1)
	require.Equal(t, "ANG MO", activeInUnit[0].Name())

	everyone, err := repo.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, everyone, 3)
}

func TestRosterRepository_Delete(t *testing.T) {
	repo := NewRosterRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []*serviceman.Serviceman{fullNSFRecord(t)}))
	require.NoError(t, repo.Delete(ctx, "TAN WEI"))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	require.ErrorIs(t, repo.Delete(ctx, "TAN WEI"), serviceman.ErrNotFound)
}

func TestRosterRepository_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	opts := configuration.StoreOptions{
		Path:        filepath.Join(dir, "roster.db"),
		BusyTimeout: time.Second,
	}
	ctx := context.Background()

	store, err := Open(opts)
	require.NoError(t, err)
	require.NoError(t, NewRosterRepository(store).Save(ctx, []*serviceman.Serviceman{fullNSFRecord(t)}))
	require.NoError(t, store.Close())

	store, err = Open(opts)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	got, err := NewRosterRepository(store).GetByName(ctx, "TAN WEI")
	require.NoError(t, err)
	require.Equal(t, "Platoon 2", got.Unit())
	fit, ok := got.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Gold", fit.Grade)
}
