package services

import (
	"fmt"
	"strings"

	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
)

type RowKind int

const (
	RowBlank RowKind = iota
	RowSectionHeader
	RowData
	RowNoise
)

// RowClass is the label the classifier attaches to one raw sheet row.
// Unit carries the resolved unit for section headers; Warning carries
// the skip reason for noise rows.
type RowClass struct {
	Kind    RowKind
	Unit    string
	Warning string
}

// ClassifyRow decides what a raw row is. Order matters: blank, then a
// strict section header, then an almost-header (unit keywords that do
// not match the strict pattern), then rows too thin to carry a person,
// and finally a data row.
func ClassifyRow(row []string) RowClass {
	if countNonEmpty(row) == 0 {
		return RowClass{Kind: RowBlank}
	}
	if first := strings.TrimSpace(cellAt(row, colUnitLabel)); first != "" {
		if u, ok := unit.MatchSectionHeader(first); ok {
			return RowClass{Kind: RowSectionHeader, Unit: u}
		}
		if unit.KeywordLike(first) {
			return RowClass{Kind: RowNoise, Warning: fmt.Sprintf("ambiguous section header %q", first)}
		}
	}
	if countNonEmpty(row) < 2 || !rankNameLike(row) {
		return RowClass{Kind: RowNoise, Warning: "no usable rank and name"}
	}
	return RowClass{Kind: RowData}
}

// rankNameLike is the data-row heuristic: a non-empty rank cell, a name
// cell longer than two characters, and neither cell echoing the column
// headers themselves.
func rankNameLike(row []string) bool {
	rank := strings.TrimSpace(cellAt(row, colRank))
	name := strings.TrimSpace(cellAt(row, colName))
	if rank == "" || len([]rune(name)) <= 2 {
		return false
	}
	return !strings.Contains(strings.ToUpper(rank), "RANK") &&
		!strings.Contains(strings.ToUpper(name), "NAME")
}

// FindDataStart scans the leading rows for the first one that carries a
// usable rank and name, skipping over titles and column-header
// furniture. scanRows bounds how deep the scan looks.
func FindDataStart(rows [][]string, scanRows int) (int, bool) {
	if scanRows <= 0 {
		scanRows = 10
	}
	limit := min(scanRows, len(rows))
	for i := 0; i < limit; i++ {
		if rankNameLike(rows[i]) {
			return i, true
		}
	}
	return 0, false
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func countNonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
