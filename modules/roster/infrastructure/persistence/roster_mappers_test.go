package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
)

func TestAssessmentCodec_EmptyBlock(t *testing.T) {
	encoded, err := encodeAssessment(serviceman.NewAssessment(serviceman.CategoryNSF))
	require.NoError(t, err)
	require.Equal(t, "{}", encoded)

	decoded, err := decodeAssessment(serviceman.CategoryNSF, encoded)
	require.NoError(t, err)
	for _, p := range decoded.Phases() {
		for _, sl := range decoded.Slots() {
			r, ok := decoded.Result(p, sl)
			require.True(t, ok)
			require.True(t, r.IsZero())
		}
	}
}

func TestAssessmentCodec_BlankRawDecodesEmpty(t *testing.T) {
	decoded, err := decodeAssessment(serviceman.CategoryRegular, "")
	require.NoError(t, err)
	r, ok := decoded.Result(serviceman.PhaseWorkYear, serviceman.SlotSkill)
	require.True(t, ok)
	require.True(t, r.IsZero())
}

func TestAssessmentCodec_DropsSlotsOutsideShape(t *testing.T) {
	// A grid written for one category decoded under the other keeps
	// only what the target shape can hold.
	raw := `{"phaseOne":{"fitness":{"grade":"Gold"}},"workYear":{"skill":{"grade":"Pass"}}}`

	asRegular, err := decodeAssessment(serviceman.CategoryRegular, raw)
	require.NoError(t, err)
	skill, ok := asRegular.Result(serviceman.PhaseWorkYear, serviceman.SlotSkill)
	require.True(t, ok)
	require.Equal(t, "Pass", skill.Grade)
	_, ok = asRegular.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.False(t, ok)

	asNSF, err := decodeAssessment(serviceman.CategoryNSF, raw)
	require.NoError(t, err)
	fit, ok := asNSF.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Gold", fit.Grade)
	_, ok = asNSF.Result(serviceman.PhaseWorkYear, serviceman.SlotSkill)
	require.False(t, ok)
}

func TestAssessmentCodec_MalformedDateIgnored(t *testing.T) {
	raw := `{"phaseOne":{"fitness":{"grade":"Gold","date":"not a date"}}}`
	decoded, err := decodeAssessment(serviceman.CategoryNSF, raw)
	require.NoError(t, err)

	fit, ok := decoded.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Gold", fit.Grade)
	require.Nil(t, fit.Date)
}

func TestAssessmentCodec_RoundTripKeepsDates(t *testing.T) {
	rec := serviceman.Hydrate("TAN WEI", serviceman.CategoryNSF)
	d := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, rec.SetResult(serviceman.PhaseOne, serviceman.SlotFitness,
		serviceman.Result{Grade: "Gold", Date: &d}))

	encoded, err := encodeAssessment(rec.Assessment())
	require.NoError(t, err)

	decoded, err := decodeAssessment(serviceman.CategoryNSF, encoded)
	require.NoError(t, err)
	fit, ok := decoded.Result(serviceman.PhaseOne, serviceman.SlotFitness)
	require.True(t, ok)
	require.Equal(t, "Gold", fit.Grade)
	require.NotNil(t, fit.Date)
	require.True(t, fit.Date.Equal(d))
}
