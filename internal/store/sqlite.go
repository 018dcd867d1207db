package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadindex/internal/merge"
	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/normalize"
)

// SchemaVersion is bumped whenever schema.sql or the row encoding changes.
// A store recorded under any other version is dropped and rebuilt.
const SchemaVersion = 3

//go:embed schema.sql
var schemaSQL string

// contentTables are the per-date tables cleared when a date is re-indexed.
var contentTables = []string{"companies", "people", "mails", "audits", "evaluations"}

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db   *sql.DB
	path string

	// writeMu serializes write transactions so parallel indexing of
	// different dates queues here instead of failing with SQLITE_BUSY.
	writeMu sync.Mutex
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
// busy_timeout and synchronous are per connection, so they ride on the DSN
// and apply to every pooled connection.
func NewSQLite(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: enable WAL")
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Open opens the index at path and brings its schema up to SchemaVersion.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	st, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// Remove deletes the index file at path together with its WAL and SHM files.
func Remove(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return eris.Wrapf(err, "sqlite: remove %s", p)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate compares the recorded schema version with SchemaVersion. On any
// mismatch, including a store that predates versioning, every table is
// dropped and the schema recreated empty.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if version == SchemaVersion {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return eris.Wrap(err, "sqlite: migrate")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin rebuild")
	}
	defer tx.Rollback() //nolint:errcheck

	tables, err := userTables(ctx, tx)
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		zap.L().Warn("index: schema version mismatch, rebuilding",
			zap.Int("found", version),
			zap.Int("want", SchemaVersion),
			zap.String("path", s.path),
		)
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS "`+strings.ReplaceAll(t, `"`, `""`)+`"`); err != nil {
			return eris.Wrapf(err, "sqlite: drop %s", t)
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return eris.Wrap(err, "sqlite: create schema")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO index_meta (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		return eris.Wrap(err, "sqlite: record schema version")
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit rebuild")
}

// schemaVersion returns the recorded version, or 0 when none is recorded.
func (s *SQLiteStore) schemaVersion(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'index_meta'`,
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: probe index_meta")
	}
	if n == 0 {
		return 0, nil
	}

	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE key = 'schema_version'`).Scan(&raw)
	if eris.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: read schema version")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func userTables(ctx context.Context, q queryer) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tables")
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan table name")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "sqlite: list tables iterate")
}

// Reset deletes every indexed row and completion marker, keeping the schema.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin reset")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range append([]string{"indexed_dates"}, contentTables...) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return eris.Wrapf(err, "sqlite: reset %s", t)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit reset")
}

// IndexDate replaces every row of date with data in one transaction and
// marks the date as indexed. Readers see either the old or the new rows.
func (s *SQLiteStore) IndexDate(ctx context.Context, date string, data model.NormalizedData) error {
	data = merge.Merge(data)
	enriched := merge.Enrich(date, data.Companies, merge.IndexOf(data))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: begin index %s", date)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range contentTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t+` WHERE date = ?`, date); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s for %s", t, date)
		}
	}

	if err := insertCompanies(ctx, tx, date, enriched); err != nil {
		return err
	}
	if err := insertPeople(ctx, tx, date, data.People); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, `INSERT INTO mails (date, folder_id, email, subject, data) VALUES (?, ?, ?, ?, ?)`,
		date, data.Mails, func(m model.Mail) []any { return []any{m.FolderID, m.Email, m.Subject} }); err != nil {
		return eris.Wrapf(err, "sqlite: insert mails for %s", date)
	}
	if err := insertRows(ctx, tx, `INSERT INTO audits (date, folder_id, url, audit_date, data) VALUES (?, ?, ?, ?, ?)`,
		date, data.Audits, func(a model.Audit) []any { return []any{a.FolderID, a.URL, a.AuditDate} }); err != nil {
		return eris.Wrapf(err, "sqlite: insert audits for %s", date)
	}
	if err := insertRows(ctx, tx, `INSERT INTO evaluations (date, folder_id, data) VALUES (?, ?, ?)`,
		date, data.Evaluations, func(e model.Evaluation) []any { return []any{e.FolderID} }); err != nil {
		return eris.Wrapf(err, "sqlite: insert evaluations for %s", date)
	}

	provenance := data.Provenance
	if provenance == "" {
		provenance = model.ProvenanceUnknown
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexed_dates (date, indexed_at, provenance, company_count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET indexed_at = excluded.indexed_at,
		   provenance = excluded.provenance, company_count = excluded.company_count`,
		date, time.Now().UTC(), string(provenance), len(enriched),
	); err != nil {
		return eris.Wrapf(err, "sqlite: mark %s indexed", date)
	}

	return eris.Wrapf(tx.Commit(), "sqlite: commit index %s", date)
}

func insertCompanies(ctx context.Context, tx *sql.Tx, date string, companies []model.EnrichedCompany) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO companies (
		date, natural_key, identity_key, folder_id, org_number, segment, region, domain_status,
		has_mail, has_audit, has_preview, worthy_site, has_email, has_domain, search_text, data
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare company insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, ec := range companies {
		c := ec.Company
		data, err := json.Marshal(c)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal company")
		}
		var status any
		if c.DomainStatus != nil {
			status = string(*c.DomainStatus)
		}
		if _, err := stmt.ExecContext(ctx,
			date, c.Key(), c.IdentityKey(), c.FolderID, c.OrgNumber,
			nullable(c.Segment), nullable(c.Region), status,
			ec.HasMail, ec.HasAudit, ec.HasPreview, ec.WorthySite, ec.HasEmail, ec.HasDomain,
			CompanySearchText(c), string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert company %s for %s", c.Key(), date)
		}
	}
	return nil
}

func insertPeople(ctx context.Context, tx *sql.Tx, date string, people []model.Person) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO people (
		date, folder_id, registration_id, personal_id, role, search_text, data
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare person insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, p := range people {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal person")
		}
		if _, err := stmt.ExecContext(ctx,
			date, p.FolderID, p.RegistrationID, p.PersonalID, string(p.Role),
			PersonSearchText(p), string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert person for %s", date)
		}
	}
	return nil
}

// insertRows inserts JSON-encoded rows of one date. key supplies the
// columns between date and data.
func insertRows[T any](ctx context.Context, tx *sql.Tx, query, date string, items []T, key func(T) []any) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return eris.Wrap(err, "prepare")
	}
	defer stmt.Close() //nolint:errcheck

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return eris.Wrap(err, "marshal")
		}
		args := append([]any{date}, key(item)...)
		args = append(args, string(data))
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrap(err, "exec")
		}
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// CompanySearchText is the lowercased haystack a company matches free text against.
func CompanySearchText(c model.Company) string {
	return searchText(c.FolderID, c.RegistrationID, c.OrgNumber,
		model.Str(c.Name), model.Str(c.Region), model.Str(c.Seat), model.Str(c.Segment),
		model.Str(c.Business), model.Str(c.Address), model.Str(c.DomainGuess),
		model.Str(c.DomainVerified), model.Str(c.Emails), model.Str(c.Phones),
		model.Str(c.Signatory), model.Str(c.BoardMembers),
	)
}

// PersonSearchText is the lowercased haystack a person matches free text against.
func PersonSearchText(p model.Person) string {
	return searchText(p.FolderID, p.RegistrationID, p.PersonalID,
		model.Str(p.FirstName), model.Str(p.MiddleName), model.Str(p.LastName),
		model.Str(p.RoleLabel), model.Str(p.City),
	)
}

func searchText(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return normalize.Lower(strings.Join(kept, " "))
}

// likePattern turns a free-text query into a LIKE pattern matched with ESCAPE '!'.
func likePattern(q string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(normalize.Lower(strings.TrimSpace(q))) + "%"
}

// IndexedDates returns the completion markers, most recent date first.
func (s *SQLiteStore) IndexedDates(ctx context.Context) ([]model.IndexedDate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, indexed_at, provenance, company_count FROM indexed_dates ORDER BY date DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list indexed dates")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.IndexedDate
	for rows.Next() {
		var d model.IndexedDate
		var provenance string
		if err := rows.Scan(&d.Date, &d.IndexedAt, &provenance, &d.CompanyCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan indexed date")
		}
		d.Provenance = model.Provenance(provenance)
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list indexed dates iterate")
}

// Totals aggregates across all indexed dates. Entity counts are distinct by
// natural key and flag counts are the number of distinct companies whose
// flag is set in at least one date.
func (s *SQLiteStore) Totals(ctx context.Context) (*model.Totals, error) {
	t := &model.Totals{
		Segments:       map[string]int{},
		Regions:        map[string]int{},
		DomainStatuses: map[string]int{},
	}

	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM indexed_dates),
		COUNT(DISTINCT identity_key),
		COUNT(DISTINCT CASE WHEN has_mail = 1 THEN identity_key END),
		COUNT(DISTINCT CASE WHEN has_audit = 1 THEN identity_key END),
		COUNT(DISTINCT CASE WHEN has_preview = 1 THEN identity_key END),
		COUNT(DISTINCT CASE WHEN worthy_site = 1 THEN identity_key END),
		COUNT(DISTINCT CASE WHEN has_email = 1 THEN identity_key END),
		COUNT(DISTINCT CASE WHEN has_domain = 1 THEN identity_key END)
		FROM companies`,
	).Scan(&t.Dates, &t.Companies,
		&t.WithMail, &t.WithAudit, &t.WithPreview, &t.WorthySite, &t.WithEmail, &t.WithDomain)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: company totals")
	}

	err = s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(DISTINCT personal_id || char(0) || registration_id) FROM people WHERE personal_id != '')
		+ (SELECT COUNT(*) FROM people WHERE personal_id = ''),
		(SELECT COUNT(DISTINCT folder_id || char(0) || email || char(0) || subject) FROM mails),
		(SELECT COUNT(DISTINCT folder_id || char(0) || url || char(0) || audit_date) FROM audits),
		(SELECT COUNT(DISTINCT folder_id) FROM evaluations)`,
	).Scan(&t.People, &t.Mails, &t.Audits, &t.Evaluations)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: entity totals")
	}

	histograms := []struct {
		column string
		into   map[string]int
	}{
		{"segment", t.Segments},
		{"region", t.Regions},
		{"COALESCE(domain_status, '" + string(model.DomainUnknown) + "')", t.DomainStatuses},
	}
	for _, h := range histograms {
		if err := s.histogram(ctx, h.column, h.into); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// histogram counts distinct companies per non-empty value of expr.
func (s *SQLiteStore) histogram(ctx context.Context, expr string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+expr+`, COUNT(DISTINCT identity_key)
		FROM companies WHERE `+expr+` IS NOT NULL AND `+expr+` != '' GROUP BY `+expr)
	if err != nil {
		return eris.Wrapf(err, "sqlite: histogram %s", expr)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var v string
		var n int
		if err := rows.Scan(&v, &n); err != nil {
			return eris.Wrap(err, "sqlite: scan histogram")
		}
		into[v] = n
	}
	return eris.Wrap(rows.Err(), "sqlite: histogram iterate")
}

// companyWhere renders the WHERE clause for a company filter.
func companyWhere(f model.SearchFilter) (string, []any) {
	var conds []string
	var args []any

	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, `search_text LIKE ? ESCAPE '!'`)
		args = append(args, likePattern(q))
	}
	if seg := strings.TrimSpace(f.Segment); seg != "" {
		conds = append(conds, `segment = ? COLLATE NOCASE`)
		args = append(args, seg)
	}
	if reg := strings.TrimSpace(f.Region); reg != "" {
		conds = append(conds, `region = ? COLLATE NOCASE`)
		args = append(args, reg)
	}
	for _, flag := range []struct {
		column string
		want   *bool
	}{
		{"has_mail", f.HasMail},
		{"has_audit", f.HasAudit},
		{"has_preview", f.HasPreview},
		{"worthy_site", f.WorthySite},
		{"has_email", f.HasEmail},
		{"has_domain", f.HasDomain},
	} {
		if flag.want != nil {
			conds = append(conds, flag.column+` = ?`)
			args = append(args, *flag.want)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchCompanies returns one page of companies matching f, most recent
// date first, together with the total match count. Flags are the stored
// ones; callers re-derive them against live links.
func (s *SQLiteStore) SearchCompanies(ctx context.Context, f model.SearchFilter) ([]model.EnrichedCompany, int, error) {
	where, args := companyWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count companies")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT date, data,
		has_mail, has_audit, has_preview, worthy_site, has_email, has_domain
		FROM companies`+where+` ORDER BY date DESC, rowid LIMIT ? OFFSET ?`,
		append(args, pageLimit(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: search companies")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.EnrichedCompany{}
	for rows.Next() {
		var ec model.EnrichedCompany
		var data string
		if err := rows.Scan(&ec.Date, &data,
			&ec.HasMail, &ec.HasAudit, &ec.HasPreview, &ec.WorthySite, &ec.HasEmail, &ec.HasDomain,
		); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan company")
		}
		if err := json.Unmarshal([]byte(data), &ec.Company); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: decode company")
		}
		out = append(out, ec)
	}
	return out, total, eris.Wrap(rows.Err(), "sqlite: search companies iterate")
}

// SearchPeople returns one page of people whose text matches query. An
// empty query matches nothing.
func (s *SQLiteStore) SearchPeople(ctx context.Context, query string, limit, offset int) ([]model.DatedPerson, int, error) {
	out := []model.DatedPerson{}
	if strings.TrimSpace(query) == "" {
		return out, 0, nil
	}
	pattern := likePattern(query)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE search_text LIKE ? ESCAPE '!'`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count people")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, data FROM people WHERE search_text LIKE ? ESCAPE '!'
		 ORDER BY date DESC, rowid LIMIT ? OFFSET ?`,
		pattern, pageLimit(limit), offset)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: search people")
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var p model.DatedPerson
		var data string
		if err := rows.Scan(&p.Date, &data); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan person")
		}
		if err := json.Unmarshal([]byte(data), &p.Person); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: decode person")
		}
		out = append(out, p)
	}
	return out, total, eris.Wrap(rows.Err(), "sqlite: search people iterate")
}

// pageLimit maps a non-positive limit to SQLite's "no limit".
func pageLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Linked loads the mails, audits and evaluations of the given folders of date.
func (s *SQLiteStore) Linked(ctx context.Context, date string, folderIDs []string) (*Linked, error) {
	out := &Linked{}
	if len(folderIDs) == 0 {
		return out, nil
	}

	in := strings.TrimSuffix(strings.Repeat("?, ", len(folderIDs)), ", ")
	args := make([]any, 0, len(folderIDs)+1)
	args = append(args, date)
	for _, id := range folderIDs {
		args = append(args, id)
	}

	var err error
	if out.Mails, err = selectLinked[model.Mail](ctx, s.db, "mails", in, args); err != nil {
		return nil, err
	}
	if out.Audits, err = selectLinked[model.Audit](ctx, s.db, "audits", in, args); err != nil {
		return nil, err
	}
	if out.Evaluations, err = selectLinked[model.Evaluation](ctx, s.db, "evaluations", in, args); err != nil {
		return nil, err
	}
	return out, nil
}

func selectLinked[T any](ctx context.Context, q queryer, table, in string, args []any) ([]T, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT data FROM `+table+` WHERE date = ? AND folder_id IN (`+in+`) ORDER BY rowid`, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load %s", table)
	}
	defer rows.Close() //nolint:errcheck

	var out []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", table)
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode %s", table)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: load %s iterate", table)
}

var _ Store = (*SQLiteStore)(nil)
