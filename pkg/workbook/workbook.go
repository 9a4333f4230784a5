// Package workbook wraps the spreadsheet codec: it turns .xlsx bytes into
// plain in-memory cell grids and back. Everything downstream of this package
// works on [][]string and never touches the underlying format library.
package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named cell grid. Rows are ragged: the codec drops trailing
// empty cells, so consumers index defensively.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is an ordered collection of sheets.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the rows of the named sheet, matching case-insensitively.
func (w *Workbook) Sheet(name string) ([][]string, bool) {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s.Rows, true
		}
	}
	return nil, false
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Decode reads an .xlsx stream into cell grids. Cell values are raw, so
// numeric date serials survive as digit strings instead of being rendered
// through the cell's display format.
func Decode(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*Workbook, error) {
	return Decode(bytes.NewReader(data))
}

// Encode serializes the grids into an .xlsx buffer. The first row of each
// sheet is styled as a header and frozen.
func Encode(wb *Workbook) (*bytes.Buffer, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("encode workbook: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("add sheet %q: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return &buf, nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	maxCols := 0
	for rowIdx, row := range sheet.Rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("cell name (%d,%d): %w", colIdx, rowIdx, err)
			}
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet.Name, cell, err)
			}
		}
	}

	if len(sheet.Rows) > 0 && maxCols > 0 {
		last, err := excelize.CoordinatesToCellName(maxCols, 1)
		if err != nil {
			return fmt.Errorf("header range: %w", err)
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header row: %w", err)
		}
		lastCol, err := excelize.ColumnNumberToName(maxCols)
		if err != nil {
			return fmt.Errorf("column name %d: %w", maxCols, err)
		}
		if err := f.SetColWidth(sheet.Name, "A", lastCol, 16); err != nil {
			return fmt.Errorf("set column widths: %w", err)
		}
		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header row: %w", err)
		}
	}
	return nil
}

