package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
)

func TestClassifyRow(t *testing.T) {
	cases := []struct {
		name string
		row  []string
		kind RowKind
		unit string
	}{
		{"empty row", []string{}, RowBlank, ""},
		{"whitespace only", []string{" ", "", "  "}, RowBlank, ""},
		{"platoon header", []string{"PLATOON 2"}, RowSectionHeader, unit.Platoon2},
		{"hq header", []string{"coy hq"}, RowSectionHeader, unit.CompanyHQ},
		{"support header", []string{"SUPPORT"}, RowSectionHeader, unit.Support},
		{"almost header", []string{"PLATOON 5"}, RowNoise, ""},
		{"keyword noise", []string{"HQ ELEMENTS"}, RowNoise, ""},
		{"data row", []string{"", "SGT", "TAN WEI", "A1", "NSF"}, RowData, ""},
		{"data row with stray numbering", []string{"7", "CPL", "LIM A", "B1", "NSF"}, RowData, ""},
		{"single cell", []string{"remarks"}, RowNoise, ""},
		{"missing name", []string{"", "SGT", "", "A1"}, RowNoise, ""},
		{"short name", []string{"", "SGT", "AB", "A1"}, RowNoise, ""},
		{"missing rank", []string{"", "", "TAN WEI", "A1"}, RowNoise, ""},
		{"column header row", []string{"UNIT", "RANK", "NAME", "PES"}, RowNoise, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyRow(tc.row)
			require.Equal(t, tc.kind, got.Kind)
			require.Equal(t, tc.unit, got.Unit)
			if tc.kind == RowNoise {
				require.NotEmpty(t, got.Warning)
			}
		})
	}
}

func TestFindDataStart(t *testing.T) {
	rows := [][]string{
		{"COMPANY ASSESSMENT TRACKER"},
		{},
		{"UNIT", "RANK", "NAME", "PES"},
		{"", "SGT", "TAN WEI", "A1", "NSF"},
	}
	start, ok := FindDataStart(rows, 10)
	require.True(t, ok)
	require.Equal(t, 3, start)
}

func TestFindDataStart_NoData(t *testing.T) {
	rows := [][]string{
		{"COMPANY ASSESSMENT TRACKER"},
		{"generated 2025"},
	}
	_, ok := FindDataStart(rows, 10)
	require.False(t, ok)
}

func TestFindDataStart_RespectsScanWindow(t *testing.T) {
	rows := make([][]string, 0, 6)
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{"filler"})
	}
	rows = append(rows, []string{"", "SGT", "TAN WEI"})

	_, ok := FindDataStart(rows, 3)
	require.False(t, ok)

	start, ok := FindDataStart(rows, 10)
	require.True(t, ok)
	require.Equal(t, 5, start)
}
