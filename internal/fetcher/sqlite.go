package fetcher

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteSource is an export database opened read-only.
type SQLiteSource struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens an export database in read-only mode.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite source: open %s", path)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrapf(err, "sqlite source: ping %s", path)
	}
	return &SQLiteSource{path: path, db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Tables lists the user tables in the database.
func (s *SQLiteSource) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite source: list tables %s", s.path)
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "sqlite source: scan table name")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "sqlite source: list tables iterate")
}

// Table returns the named table, matched case-insensitively against the
// database's table list. ok is false when no such table exists.
func (s *SQLiteSource) Table(ctx context.Context, name string) (*Table, bool, error) {
	names, err := s.Tables(ctx)
	if err != nil {
		return nil, false, err
	}
	actual := ""
	for _, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			actual = n
			break
		}
	}
	if actual == "" {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+strings.ReplaceAll(actual, `"`, `""`)+`"`)
	if err != nil {
		return nil, false, eris.Wrapf(err, "sqlite source: select %s", actual)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite source: columns")
	}

	t := &Table{Name: actual, Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, false, eris.Wrapf(err, "sqlite source: scan %s", actual)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, false, eris.Wrapf(err, "sqlite source: iterate %s", actual)
	}
	return t, true, nil
}
