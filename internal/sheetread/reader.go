package sheetread

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/medliq/internal/normalize"
)

// Sheet is one worksheet flattened to a header list plus ordered data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Row is one data row. Index is the 1-based row number in the original
// worksheet, preserved so warnings can point at the offending spreadsheet row.
type Row struct {
	Index int
	Cells []string
}

// Cell returns the cell under the given column index, or "" past the row end.
// Excel exports routinely truncate trailing empty cells.
func (r *Row) Cell(col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return r.Cells[col]
}

// Workbook wraps an open .xlsx file.
type Workbook struct {
	f *excelize.File
}

// Open opens an .xlsx workbook for reading.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the workbook's sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Read loads a sheet. An empty sheetName selects the first sheet. The header
// row is located by matching normalized cell values against known header
// names; clinic exports often carry a title banner above the real header row.
func (w *Workbook) Read(sheetName string, knownHeaders []string) (*Sheet, error) {
	if sheetName == "" {
		names := w.f.GetSheetList()
		if len(names) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = names[0]
	}

	raw, err := w.f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	headerIdx := detectHeaderRow(raw, knownHeaders)
	s := &Sheet{Name: sheetName, Headers: raw[headerIdx]}
	for i := headerIdx + 1; i < len(raw); i++ {
		if rowEmpty(raw[i]) {
			continue
		}
		s.Rows = append(s.Rows, Row{Index: i + 1, Cells: raw[i]})
	}
	return s, nil
}

// detectHeaderRow returns the index of the first row where at least two cells
// match a known header name after normalization. Falls back to row 0.
func detectHeaderRow(rows [][]string, known []string) int {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[normalize.Name(k)] = true
	}
	for i, row := range rows {
		hits := 0
		for _, cell := range row {
			if knownSet[normalize.Name(cell)] {
				hits++
			}
		}
		if hits >= 2 {
			return i
		}
	}
	return 0
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// excelEpoch is the zero of Excel's 1900 date system, offset for the
// fictitious 1900 leap day.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SerialDate converts an Excel date serial to a calendar date. Cells styled
// "General" render stored dates as bare serial numbers like "45678".
func SerialDate(serial float64) time.Time {
	t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayFraction is the fractional part of a serial, for time-of-day cells.
func DayFraction(serial float64) float64 {
	return serial - float64(int64(serial))
}
