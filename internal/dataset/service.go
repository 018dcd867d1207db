// Package dataset answers date listings, per-date views, totals and search
// over the export directories. The index is populated lazily: every
// aggregate or search call first indexes any date directory the index has
// not seen yet.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/leadindex/internal/fetcher"
	"github.com/sells-group/leadindex/internal/merge"
	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/resilience"
	"github.com/sells-group/leadindex/internal/source"
	"github.com/sells-group/leadindex/internal/store"
)

var (
	// ErrInvalidDate is returned for dates not in YYYYMMDD form.
	ErrInvalidDate = eris.New("dataset: invalid date")
	// ErrDateNotFound is returned when no root has the date directory.
	ErrDateNotFound = eris.New("dataset: date not found")
	// ErrUnreadableDate is returned when indexing a date whose export files
	// all failed to read. No completion marker is written for it.
	ErrUnreadableDate = eris.New("dataset: no readable export files")
)

// Options configures a Service.
type Options struct {
	IndexPath    string
	Concurrency  int
	DefaultLimit int
	MaxLimit     int
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 50
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 500
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	return o
}

// Service is the query engine over the date directories and the index.
type Service struct {
	locator *source.Locator
	reader  *source.Reader
	opts    Options

	// mu guards st. Clear and Ingest take it exclusively. st is nil only
	// after a Clear that could not reopen the index.
	mu sync.RWMutex
	st *store.SQLiteStore

	openStore   func(ctx context.Context, path string) (*store.SQLiteStore, error)
	removeIndex func(path string) error

	// indexing collapses concurrent indexing of the same date.
	indexing singleflight.Group
}

// New opens (or creates) the index at opts.IndexPath.
func New(ctx context.Context, locator *source.Locator, reader *source.Reader, opts Options) (*Service, error) {
	opts = opts.withDefaults()
	if opts.IndexPath == "" {
		return nil, eris.New("dataset: index path is required")
	}
	st, err := openIndex(ctx, opts.IndexPath)
	if err != nil {
		return nil, err
	}
	return &Service{
		locator:     locator,
		reader:      reader,
		opts:        opts,
		st:          st,
		openStore:   openIndex,
		removeIndex: store.Remove,
	}, nil
}

func openIndex(ctx context.Context, path string) (*store.SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "dataset: create index dir %s", dir)
		}
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open index")
	}
	return st, nil
}

// acquire takes the read lock over an open index and returns its release.
// When a failed Clear left no index, it reopens one first.
func (s *Service) acquire(ctx context.Context) (func(), error) {
	for {
		s.mu.RLock()
		if s.st != nil {
			return s.mu.RUnlock, nil
		}
		s.mu.RUnlock()

		s.mu.Lock()
		err := s.reopen(ctx)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
}

// reopen opens the index if none is open. s.mu must be held exclusively.
func (s *Service) reopen(ctx context.Context) error {
	if s.st != nil {
		return nil
	}
	st, err := s.openStore(ctx, s.opts.IndexPath)
	if err != nil {
		return err
	}
	zap.L().Info("dataset: opened index", zap.String("index", s.opts.IndexPath))
	s.st = st
	return nil
}

// Close releases the index.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st == nil {
		return nil
	}
	return s.st.Close()
}

// ListDates returns every date directory on disk, most recent first.
func (s *Service) ListDates() []model.DateEntry {
	dates := s.locator.ListDates()
	out := make([]model.DateEntry, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.DateEntry{Date: d, DisplayLabel: source.DisplayLabel(d)})
	}
	return out
}

// GetDateData reads one date straight from its source files. It does not
// touch the index, so it reflects the files as they are right now.
func (s *Service) GetDateData(ctx context.Context, date string) (*model.DateData, error) {
	data, _, err := s.readDate(ctx, date)
	if err != nil {
		return nil, err
	}

	enriched := merge.Enrich(date, data.Companies, merge.IndexOf(data))
	return &model.DateData{
		Date:        date,
		Companies:   enriched,
		People:      data.People,
		Mails:       data.Mails,
		Audits:      data.Audits,
		Evaluations: data.Evaluations,
		Summary:     data.Summary,
		Stats:       merge.Stats(data, enriched),
		Provenance:  data.Provenance,
	}, nil
}

// readDate resolves, reads and merges one date directory.
func (s *Service) readDate(ctx context.Context, date string) (model.NormalizedData, *source.Result, error) {
	if !source.IsDate(date) {
		return model.NormalizedData{}, nil, eris.Wrapf(ErrInvalidDate, "date %q", date)
	}
	dir, ok := s.locator.Dir(date)
	if !ok {
		return model.NormalizedData{}, nil, eris.Wrapf(ErrDateNotFound, "date %s", date)
	}
	res, err := s.reader.ReadDate(ctx, dir)
	if err != nil {
		return model.NormalizedData{}, nil, eris.Wrapf(err, "dataset: read %s", date)
	}
	return merge.Merge(res.Data()), res, nil
}

// IndexDate reads date from disk and replaces its rows in the index.
func (s *Service) IndexDate(ctx context.Context, date string) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return s.indexDate(ctx, date)
}

// indexDate requires s.mu to be held.
func (s *Service) indexDate(ctx context.Context, date string) error {
	_, err, shared := s.indexing.Do(date, func() (any, error) {
		start := time.Now()
		data, res, err := s.readDate(ctx, date)
		if err != nil {
			return nil, err
		}
		if res.Unreadable() {
			return nil, eris.Wrapf(ErrUnreadableDate, "date %s: %s", date, strings.Join(res.Skipped, ", "))
		}
		retry := resilience.IndexWriteRetry()
		retry.OnRetry = resilience.RetryLogger("index date", date)
		if err := resilience.Do(ctx, retry, func(ctx context.Context) error {
			return s.st.IndexDate(ctx, date, data)
		}); err != nil {
			return nil, err
		}
		zap.L().Info("dataset: indexed date",
			zap.String("date", date),
			zap.String("provenance", string(data.Provenance)),
			zap.Int("companies", len(data.Companies)),
			zap.Int("people", len(data.People)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, nil
	})
	if shared {
		zap.L().Debug("dataset: joined in-flight indexing", zap.String("date", date))
	}
	return err
}

// EnsureIndexed indexes every date directory on disk that the index has
// no completion marker for. A date that fails is logged and left for the
// next call. It returns how many dates were indexed.
func (s *Service) EnsureIndexed(ctx context.Context) (int, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()
	return s.ensureIndexed(ctx)
}

func (s *Service) ensureIndexed(ctx context.Context) (int, error) {
	indexed, err := s.st.IndexedDates(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "dataset: list indexed dates")
	}
	done := make(map[string]bool, len(indexed))
	for _, d := range indexed {
		done[d.Date] = true
	}

	var pending []string
	for _, d := range s.locator.ListDates() {
		if !done[d] {
			pending = append(pending, d)
		}
	}
	return s.indexAll(ctx, pending), nil
}

// Reindex re-indexes every date directory on disk regardless of markers.
func (s *Service) Reindex(ctx context.Context) int {
	unlock, err := s.acquire(ctx)
	if err != nil {
		zap.L().Error("dataset: reindex", zap.Error(err))
		return 0
	}
	defer unlock()
	return s.indexAll(ctx, s.locator.ListDates())
}

func (s *Service) indexAll(ctx context.Context, dates []string) int {
	if len(dates) == 0 {
		return 0
	}

	var ok atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, date := range dates {
		g.Go(func() error {
			if err := s.indexDate(gctx, date); err != nil {
				zap.L().Warn("dataset: skipping date", zap.String("date", date), zap.Error(err))
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(ok.Load())
}

// IndexedDates returns the index's completion markers, most recent first.
func (s *Service) IndexedDates(ctx context.Context) ([]model.IndexedDate, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	dates, err := s.st.IndexedDates(ctx)
	return dates, eris.Wrap(err, "dataset: indexed dates")
}

// GetTotals returns whole-dataset aggregates after indexing any new dates.
func (s *Service) GetTotals(ctx context.Context) (*model.Totals, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.ensureIndexed(ctx); err != nil {
		return nil, err
	}
	t, err := s.st.Totals(ctx)
	return t, eris.Wrap(err, "dataset: totals")
}

// Search runs f against the index after indexing any new dates. Company
// flags are re-derived from the linked rows. People are only searched when
// f has free text.
func (s *Service) Search(ctx context.Context, f model.SearchFilter) (*model.SearchResult, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.ensureIndexed(ctx); err != nil {
		return nil, err
	}

	f.Limit = s.clampLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}

	companies, total, err := s.st.SearchCompanies(ctx, f)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: search companies")
	}
	if err := s.relink(ctx, companies); err != nil {
		return nil, err
	}

	res := &model.SearchResult{
		Companies:      companies,
		People:         []model.DatedPerson{},
		TotalCompanies: total,
	}
	if strings.TrimSpace(f.Query) != "" {
		people, n, err := s.st.SearchPeople(ctx, f.Query, f.Limit, f.Offset)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: search people")
		}
		res.People = people
		res.TotalPeople = n
	}
	return res, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// relink recomputes the flags of companies from the mails, audits and
// evaluations currently indexed for their folders.
func (s *Service) relink(ctx context.Context, companies []model.EnrichedCompany) error {
	byDate := map[string][]int{}
	var order []string
	for i, c := range companies {
		if _, ok := byDate[c.Date]; !ok {
			order = append(order, c.Date)
		}
		byDate[c.Date] = append(byDate[c.Date], i)
	}

	for _, date := range order {
		idx := byDate[date]
		folders := make([]string, 0, len(idx))
		for _, i := range idx {
			if id := companies[i].FolderID; id != "" {
				folders = append(folders, id)
			}
		}
		linked, err := s.st.Linked(ctx, date, folders)
		if err != nil {
			return eris.Wrapf(err, "dataset: load links for %s", date)
		}
		ix := merge.NewLinkIndex(linked.Mails, linked.Audits, linked.Evaluations)
		for _, i := range idx {
			companies[i].Flags = merge.DeriveFlags(companies[i].Company, ix)
		}
	}
	return nil
}

// Ingest extracts a ZIP bundle into the date directory under the primary
// root and indexes it. Queries wait while it runs, so no lazy indexing pass
// can read the directory half extracted.
func (s *Service) Ingest(ctx context.Context, date, zipPath string) (int, error) {
	if !source.IsDate(date) {
		return 0, eris.Wrapf(ErrInvalidDate, "date %q", date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reopen(ctx); err != nil {
		return 0, err
	}

	dir, err := s.locator.CreateDir(date)
	if err != nil {
		return 0, eris.Wrap(err, "dataset: ingest")
	}
	files, err := fetcher.ExtractZIP(zipPath, dir)
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: extract bundle for %s", date)
	}
	if err := fetcher.FlattenSingleDir(dir); err != nil {
		return 0, eris.Wrapf(err, "dataset: flatten bundle for %s", date)
	}

	zap.L().Info("dataset: bundle extracted",
		zap.String("date", date),
		zap.String("dir", dir),
		zap.Int("files", len(files)),
	)
	if err := s.indexDate(ctx, date); err != nil {
		return len(files), err
	}
	return len(files), nil
}

// Clear deletes every date directory in every root and the index file,
// then starts over with an empty index. It returns how many date
// directories were removed.
func (s *Service) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.locator.RemoveAll()
	if err != nil {
		return removed, eris.Wrap(err, "dataset: clear dates")
	}

	path := s.opts.IndexPath
	if s.st != nil {
		if err := s.st.Close(); err != nil {
			zap.L().Warn("dataset: close index before clear", zap.Error(err))
		}
		s.st = nil
	}
	if err := s.removeIndex(path); err != nil {
		// Whatever survived still describes the removed dates.
		if rerr := s.reopen(ctx); rerr == nil {
			if rerr := s.st.Reset(ctx); rerr != nil {
				zap.L().Error("dataset: reset index after failed removal", zap.Error(rerr))
			}
		}
		return removed, eris.Wrap(err, "dataset: remove index")
	}
	if err := s.reopen(ctx); err != nil {
		return removed, err
	}

	zap.L().Info("dataset: cleared", zap.Int("dates", removed), zap.String("index", path))
	return removed, nil
}
