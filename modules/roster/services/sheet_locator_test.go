package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/rostertrack/pkg/workbook"
)

func locatorFixture() *workbook.Workbook {
	data := [][]string{
		{"", "SGT", "TAN WEI", "A1", "NSF"},
		{"", "CPL", "LIM BOON", "B1", "NSF"},
	}
	return &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Cover", Rows: [][]string{{"assessment tracker"}}},
		{Name: "Nominal Roll", Rows: data},
		{Name: "ORD Dates", Rows: [][]string{
			{"", "SGT", "TAN WEI", "", "", "141125"},
		}},
	}}
}

func TestLocatePrimarySheet_PreferredName(t *testing.T) {
	wb := locatorFixture()

	sheet, ok := LocatePrimarySheet(wb, "nominal roll", 10)
	require.True(t, ok)
	require.Equal(t, "nominal roll", sheet.Name)
	require.Len(t, sheet.Rows, 2)
}

func TestLocatePrimarySheet_PreferredWithoutDataFallsThrough(t *testing.T) {
	wb := locatorFixture()

	sheet, ok := LocatePrimarySheet(wb, "Cover", 10)
	require.True(t, ok)
	require.Equal(t, "Nominal Roll", sheet.Name)
}

func TestLocatePrimarySheet_HintMatch(t *testing.T) {
	wb := locatorFixture()

	sheet, ok := LocatePrimarySheet(wb, "", 10)
	require.True(t, ok)
	require.Equal(t, "Nominal Roll", sheet.Name)
}

func TestLocatePrimarySheet_ScoreFallback(t *testing.T) {
	wb := &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Sheet1", Rows: [][]string{{"notes"}}},
		{Name: "Sheet2", Rows: [][]string{
			{"", "SGT", "TAN WEI", "A1", "NSF"},
			{"", "CPL", "LIM BOON", "B1", "NSF"},
		}},
		{Name: "Sheet3", Rows: [][]string{
			{"", "SGT", "ONG KAI", "A1", "NSF"},
		}},
	}}

	sheet, ok := LocatePrimarySheet(wb, "", 10)
	require.True(t, ok)
	require.Equal(t, "Sheet2", sheet.Name)
}

func TestLocatePrimarySheet_NothingUsable(t *testing.T) {
	wb := &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Notes", Rows: [][]string{{"empty quarter"}}},
	}}

	_, ok := LocatePrimarySheet(wb, "", 10)
	require.False(t, ok)
}

func TestLocateSecondarySheet_HintMatch(t *testing.T) {
	wb := locatorFixture()

	sheet, ok := LocateSecondarySheet(wb, "", "Nominal Roll")
	require.True(t, ok)
	require.Equal(t, "ORD Dates", sheet.Name)
}

func TestLocateSecondarySheet_NeverReturnsPrimary(t *testing.T) {
	wb := &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Dates", Rows: [][]string{{"", "SGT", "TAN WEI", "", "", "141125"}}},
	}}

	_, ok := LocateSecondarySheet(wb, "Dates", "Dates")
	require.False(t, ok)
}

func TestLocateSecondarySheet_Absent(t *testing.T) {
	wb := &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Nominal Roll", Rows: [][]string{{"", "SGT", "TAN WEI"}}},
	}}

	_, ok := LocateSecondarySheet(wb, "", "Nominal Roll")
	require.False(t, ok)
}
