package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook is an opened XLSX file whose sheets can be probed by name.
type Workbook struct {
	path string
	file *xlsx.File
}

// OpenXLSX opens and parses an XLSX workbook.
func OpenXLSX(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open file %s", path)
	}
	return &Workbook{path: path, file: f}, nil
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.file.Sheets))
	for _, s := range w.file.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Table returns the named sheet as a Table. Names match case-insensitively
// and ignoring surrounding whitespace.
func (w *Workbook) Table(name string) (*Table, bool) {
	want := strings.TrimSpace(name)
	for _, s := range w.file.Sheets {
		if strings.EqualFold(strings.TrimSpace(s.Name), want) {
			return sheetTable(s), true
		}
	}
	return nil, false
}

// First returns the first sheet as a Table.
func (w *Workbook) First() (*Table, bool) {
	if len(w.file.Sheets) == 0 {
		return nil, false
	}
	return sheetTable(w.file.Sheets[0]), true
}

func sheetTable(sheet *xlsx.Sheet) *Table {
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return tableFromStrings(sheet.Name, rows)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}
