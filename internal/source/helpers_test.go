package source

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	_ "modernc.org/sqlite"
)

type sheet struct {
	name string
	rows [][]string
}

func writeXLSX(t *testing.T, dir, name string, sheets ...sheet) {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sh, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, r := range s.rows {
			row := sh.AddRow()
			for _, v := range r {
				row.AddCell().SetString(v)
			}
		}
	}
	require.NoError(t, f.Save(filepath.Join(dir, name)))
}

func writeDB(t *testing.T, dir, name string, stmts ...string) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(dir, name))
	require.NoError(t, err)
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}
