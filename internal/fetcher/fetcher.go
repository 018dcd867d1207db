// Package fetcher reads tabular data out of export files: XLSX workbooks, CSV
// files and embedded SQLite databases. It also unpacks upload bundles.
package fetcher

import (
	"strconv"
	"strings"
)

// Table is one sheet or database table: a header and its data rows. Row
// values are scalars (string for spreadsheets, driver types for SQLite).
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Records returns each row keyed by column name.
func (t *Table) Records() []map[string]any {
	if t == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = nil
			}
		}
		out = append(out, rec)
	}
	return out
}

// tableFromStrings builds a Table from raw spreadsheet rows. The first
// non-blank row is the header; blank rows are dropped. Blank or duplicate
// header cells get positional names so no value is lost.
func tableFromStrings(name string, rows [][]string) *Table {
	t := &Table{Name: name}
	headerSeen := false
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if !headerSeen {
			t.Columns = headerNames(row)
			headerSeen = true
			continue
		}
		vals := make([]any, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				vals[i] = row[i]
			}
		}
		t.Rows = append(t.Rows, vals)
	}
	return t
}

func headerNames(row []string) []string {
	cols := make([]string, len(row))
	seen := make(map[string]bool, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name == "" || seen[name] {
			name = "column_" + strconv.Itoa(i+1)
		}
		seen[name] = true
		cols[i] = name
	}
	return cols
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
