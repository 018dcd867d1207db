package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadindex/internal/fetcher"
	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/normalize"
)

type fileFormat int

const (
	formatDB fileFormat = iota
	formatXLSX
	formatCSV
)

// sourceFile is one candidate export file in a date directory.
type sourceFile struct {
	path   string
	name   string
	format fileFormat
}

func classify(name string) (fileFormat, bool) {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return 0, false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".db", ".sqlite", ".sqlite3":
		return formatDB, true
	case ".xlsx":
		return formatXLSX, true
	case ".csv":
		return formatCSV, true
	}
	return 0, false
}

// Result is the reconciled, not yet deduplicated, content of one date
// directory.
type Result struct {
	Companies   []model.Company
	People      []model.Person
	Mails       []model.Mail
	Audits      []model.Audit
	Evaluations []model.Evaluation
	Summary     model.Summary
	Provenance  model.Provenance
	Files       []string
	// Skipped lists the export files that could not be read.
	Skipped []string
}

// Unreadable reports whether the directory held export files and none of
// them could be read.
func (r *Result) Unreadable() bool {
	return len(r.Files) == 0 && len(r.Skipped) > 0
}

// extract is what one file contributed, per kind.
type extract struct {
	companies   []model.Company
	people      []model.Person
	mails       []model.Mail
	audits      []model.Audit
	evaluations []model.Evaluation
	summary     model.Summary
}

// Reader reads date directories under a precedence Policy.
type Reader struct {
	policy Policy
}

// NewReader returns a Reader using policy.
func NewReader(policy Policy) *Reader {
	return &Reader{policy: policy}
}

// ReadDate reads every export file in dir and reconciles them. Only a failure
// to list the directory is returned; unreadable files are logged and skipped.
func (r *Reader) ReadDate(ctx context.Context, dir string) (*Result, error) {
	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Provenance: model.ProvenanceUnknown}
	var (
		companyWin = winner{}
		personWin  = winner{}
	)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "source: read date cancelled")
		}

		ex, err := r.readFile(ctx, f)
		if err != nil {
			zap.L().Warn("source: skip unreadable file",
				zap.String("file", f.path),
				zap.Error(err),
			)
			res.Skipped = append(res.Skipped, f.name)
			continue
		}
		res.Files = append(res.Files, f.name)

		label := r.provenance(f)
		if companyWin.offer(r.policy.rank(model.KindCompany, f.name), len(ex.companies) > 0, label) {
			res.Companies = ex.companies
		}
		if personWin.offer(r.policy.rank(model.KindPerson, f.name), len(ex.people) > 0, label) {
			res.People = ex.people
		}

		res.Mails = append(res.Mails, ex.mails...)
		res.Audits = append(res.Audits, ex.audits...)

		if len(res.Evaluations) == 0 && len(ex.evaluations) > 0 {
			res.Evaluations = ex.evaluations
		}
		if len(res.Summary) == 0 && len(ex.summary) > 0 {
			res.Summary = ex.summary
		}
	}

	switch {
	case companyWin.set:
		res.Provenance = companyWin.label
	case personWin.set:
		res.Provenance = personWin.label
	}
	return res, nil
}

// winner tracks the file currently holding a kind's data. A file carrying a
// final marker replaces any unmarked or weaker-marked holder, and a later
// file with an equally strong marker replaces an earlier one. Without
// markers the first file with data keeps it.
type winner struct {
	set   bool
	rank  int
	label model.Provenance
}

func (w *winner) offer(rank int, hasData bool, label model.Provenance) bool {
	if !hasData {
		return false
	}
	marked := rank >= 0
	switch {
	case !w.set:
	case marked && (w.rank < 0 || rank <= w.rank):
	default:
		return false
	}
	w.set, w.rank, w.label = true, rank, label
	return true
}

func (r *Reader) provenance(f sourceFile) model.Provenance {
	switch {
	case f.format == formatDB:
		return model.ProvenanceEmbeddedDB
	case r.policy.isFinal(f.name):
		return model.ProvenanceSpreadsheetFinal
	default:
		return model.ProvenanceSpreadsheetOther
	}
}

// listFiles returns the export files in dir: databases first, then
// spreadsheets, each group in directory-listing order.
func listFiles(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "source: list %s", dir)
	}
	var dbs, sheets []sourceFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, ok := classify(e.Name())
		if !ok {
			continue
		}
		f := sourceFile{path: filepath.Join(dir, e.Name()), name: e.Name(), format: format}
		if format == formatDB {
			dbs = append(dbs, f)
		} else {
			sheets = append(sheets, f)
		}
	}
	return append(dbs, sheets...), nil
}

func (r *Reader) readFile(ctx context.Context, f sourceFile) (*extract, error) {
	switch f.format {
	case formatDB:
		return r.readDB(ctx, f)
	case formatXLSX:
		return r.readXLSX(f)
	default:
		return r.readCSV(ctx, f)
	}
}

func (r *Reader) readDB(ctx context.Context, f sourceFile) (*extract, error) {
	src, err := fetcher.OpenSQLite(ctx, f.path)
	if err != nil {
		return nil, err
	}
	defer src.Close() //nolint:errcheck

	// Fail early on files that open but are not databases.
	if _, err := src.Tables(ctx); err != nil {
		return nil, err
	}

	tables := map[model.Kind]*fetcher.Table{}
	for _, kind := range model.Kinds {
		for _, name := range sheetNames[kind] {
			t, ok, err := src.Table(ctx, name)
			if err != nil {
				zap.L().Warn("source: skip table", zap.String("file", f.name), zap.String("table", name), zap.Error(err))
				continue
			}
			if ok && t.Len() > 0 {
				tables[kind] = t
				break
			}
		}
	}
	return build(tables), nil
}

func (r *Reader) readXLSX(f sourceFile) (*extract, error) {
	wb, err := fetcher.OpenXLSX(f.path)
	if err != nil {
		return nil, err
	}

	tables := map[model.Kind]*fetcher.Table{}
	for _, kind := range model.Kinds {
		for _, name := range sheetNames[kind] {
			if t, ok := wb.Table(name); ok && t.Len() > 0 {
				tables[kind] = t
				break
			}
		}
	}
	if tables[model.KindCompany] == nil && r.policy.isRegistryExport(f.name) {
		if t, ok := wb.First(); ok {
			tables[model.KindCompany] = t
		}
	}
	return build(tables), nil
}

func (r *Reader) readCSV(ctx context.Context, f sourceFile) (*extract, error) {
	t, err := fetcher.ReadCSVTable(ctx, f.path)
	if err != nil {
		return nil, err
	}
	return build(map[model.Kind]*fetcher.Table{csvKind(t.Name): t}), nil
}

// build normalizes each table and drops rows whose key fields are all empty.
func build(tables map[model.Kind]*fetcher.Table) *extract {
	ex := &extract{}
	for kind, t := range tables {
		recs := t.Records()
		switch kind {
		case model.KindCompany:
			for _, rec := range recs {
				if c := normalize.Company(rec); c.FolderID != "" || c.OrgNumber != "" {
					ex.companies = append(ex.companies, c)
				}
			}
		case model.KindPerson:
			for _, rec := range recs {
				if p := normalize.Person(rec); p.FolderID != "" || p.RegistrationID != "" || p.PersonalID != "" {
					ex.people = append(ex.people, p)
				}
			}
		case model.KindMail:
			for _, rec := range recs {
				if m := normalize.Mail(rec); m.FolderID != "" || m.Email != "" {
					ex.mails = append(ex.mails, m)
				}
			}
		case model.KindAudit:
			for _, rec := range recs {
				if a := normalize.Audit(rec); a.FolderID != "" || a.URL != "" {
					ex.audits = append(ex.audits, a)
				}
			}
		case model.KindEvaluation:
			for _, rec := range recs {
				if e := normalize.Evaluation(rec); e.FolderID != "" {
					ex.evaluations = append(ex.evaluations, e)
				}
			}
		case model.KindSummary:
			raws := make([]normalize.RawRecord, 0, len(recs))
			for _, rec := range recs {
				raws = append(raws, rec)
			}
			ex.summary = normalize.Summary(raws)
		}
	}
	return ex
}

// Data returns the result as a NormalizedData bundle, before deduplication.
func (r *Result) Data() model.NormalizedData {
	return model.NormalizedData{
		Companies:   r.Companies,
		People:      r.People,
		Mails:       r.Mails,
		Audits:      r.Audits,
		Evaluations: r.Evaluations,
		Summary:     r.Summary,
		Provenance:  r.Provenance,
	}
}
