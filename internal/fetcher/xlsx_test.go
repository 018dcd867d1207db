package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

type testSheet struct {
	name string
	rows [][]string
}

func createTestXLSX(t *testing.T, sheets ...testSheet) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestOpenXLSX_SheetNames(t *testing.T) {
	path := createTestXLSX(t,
		testSheet{"Företag", [][]string{{"Mapp"}, {"X1"}}},
		testSheet{"Mail", [][]string{{"Mapp"}}},
	)

	wb, err := OpenXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Företag", "Mail"}, wb.SheetNames())
}

func TestWorkbook_Table(t *testing.T) {
	path := createTestXLSX(t, testSheet{"Personer", [][]string{
		{"Mapp", "Förnamn", "Efternamn"},
		{"X1", "Anna", "Svensson"},
		{"", "", ""},
		{"X2", "Erik"},
	}})

	wb, err := OpenXLSX(path)
	require.NoError(t, err)

	tbl, ok := wb.Table("  personer ")
	require.True(t, ok)
	assert.Equal(t, "Personer", tbl.Name)
	assert.Equal(t, []string{"Mapp", "Förnamn", "Efternamn"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())

	recs := tbl.Records()
	assert.Equal(t, "Anna", recs[0]["Förnamn"])
	assert.Equal(t, "Erik", recs[1]["Förnamn"])
	assert.Nil(t, recs[1]["Efternamn"])
}

func TestWorkbook_TableMissing(t *testing.T) {
	path := createTestXLSX(t, testSheet{"Sheet1", [][]string{{"a"}}})

	wb, err := OpenXLSX(path)
	require.NoError(t, err)

	_, ok := wb.Table("Mail")
	assert.False(t, ok)
}

func TestWorkbook_First(t *testing.T) {
	path := createTestXLSX(t,
		testSheet{"Blad1", [][]string{{"orgnr", "namn"}, {"5560001122", "Acme AB"}}},
		testSheet{"Blad2", [][]string{{"x"}}},
	)

	wb, err := OpenXLSX(path)
	require.NoError(t, err)

	tbl, ok := wb.First()
	require.True(t, ok)
	assert.Equal(t, "Blad1", tbl.Name)
	assert.Equal(t, 1, tbl.Len())
}

func TestWorkbook_DuplicateAndBlankHeaders(t *testing.T) {
	path := createTestXLSX(t, testSheet{"Data", [][]string{
		{"namn", "", "namn"},
		{"a", "b", "c"},
	}})

	wb, err := OpenXLSX(path)
	require.NoError(t, err)

	tbl, ok := wb.Table("Data")
	require.True(t, ok)
	assert.Equal(t, []string{"namn", "column_2", "column_3"}, tbl.Columns)
}

func TestOpenXLSX_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, writeTestFile(path, "not a zip"))

	_, err := OpenXLSX(path)
	assert.Error(t, err)
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Nil(t, tbl.Records())
}
