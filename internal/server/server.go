// Package server exposes the dataset operations over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadindex/internal/dataset"
	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/normalize"
)

// defaultMaxUploadBytes caps a bundle upload at 512 MiB.
const defaultMaxUploadBytes = 512 << 20

// Service is the subset of the dataset service the HTTP layer calls.
type Service interface {
	ListDates() []model.DateEntry
	GetDateData(ctx context.Context, date string) (*model.DateData, error)
	GetTotals(ctx context.Context) (*model.Totals, error)
	Search(ctx context.Context, f model.SearchFilter) (*model.SearchResult, error)
	Ingest(ctx context.Context, date, zipPath string) (int, error)
	Clear(ctx context.Context) (int, error)
}

// Options configures the HTTP layer.
type Options struct {
	AuthToken      string
	UploadRate     float64
	UploadBurst    int
	CORSOrigins    []string
	UploadDir      string
	MaxUploadBytes int64
}

// Server routes HTTP requests to a Service.
type Server struct {
	svc     Service
	opts    Options
	limiter *rate.Limiter
}

// New returns a Server over svc.
func New(svc Service, opts Options) *Server {
	if opts.UploadRate <= 0 {
		opts.UploadRate = 1
	}
	if opts.UploadBurst < 1 {
		opts.UploadBurst = 1
	}
	if opts.UploadDir == "" {
		opts.UploadDir = os.TempDir()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{
		svc:     svc,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.UploadRate), opts.UploadBurst),
	}
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/dates", s.handleListDates)
		r.Get("/dates/{date}", s.handleDateData)
		r.Post("/dates/{date}/upload", s.handleUpload)
		r.Get("/totals", s.handleTotals)
		r.Get("/search", s.handleSearch)
		r.Delete("/data", s.handleClear)
	})
	return r
}

// authenticate rejects requests without the configured bearer token. An
// empty token disables the check.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.AuthToken)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="leadindex"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleListDates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"dates": s.svc.ListDates()})
}

func (s *Server) handleDateData(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.GetDateData(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.svc.GetTotals(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Search(r.Context(), ParseFilter(r.URL.Query()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ParseFilter reads a search filter from query parameters. Unrecognized
// boolean tokens and malformed numbers are treated as absent.
func ParseFilter(q map[string][]string) model.SearchFilter {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	flag := func(key string) *bool {
		v, ok := normalize.ParseBool(get(key))
		if !ok {
			return nil
		}
		return &v
	}
	num := func(key string) int {
		n, err := strconv.Atoi(get(key))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	return model.SearchFilter{
		Query:      get("q"),
		Segment:    get("segment"),
		Region:     get("region"),
		HasMail:    flag("has_mail"),
		HasAudit:   flag("has_audit"),
		HasPreview: flag("has_preview"),
		WorthySite: flag("worthy_site"),
		HasEmail:   flag("has_email"),
		HasDomain:  flag("has_domain"),
		Limit:      num("limit"),
		Offset:     num("offset"),
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "too many uploads")
		return
	}

	date := chi.URLParam(r, "date")
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	file, _, err := r.FormFile("bundle")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"bundle\" is required")
		return
	}
	defer file.Close() //nolint:errcheck

	staged, err := s.stage(file)
	if err != nil {
		zap.L().Error("upload: stage bundle", zap.String("date", date), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.Remove(staged) //nolint:errcheck

	n, err := s.svc.Ingest(r.Context(), date, staged)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"date": date, "files": n})
}

// stage copies an uploaded bundle to a uniquely named file in UploadDir.
func (s *Server) stage(src io.Reader) (string, error) {
	path := filepath.Join(s.opts.UploadDir, "leadindex-upload-"+uuid.New().String()+".zip")
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "server: create staging file")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()       //nolint:errcheck
		os.Remove(path) //nolint:errcheck
		return "", eris.Wrap(err, "server: write staging file")
	}
	if err := f.Close(); err != nil {
		os.Remove(path) //nolint:errcheck
		return "", eris.Wrap(err, "server: close staging file")
	}
	return path, nil
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	removed, err := s.svc.Clear(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed_dates": removed})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, dataset.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid date")
	case eris.Is(err, dataset.ErrDateNotFound):
		writeError(w, http.StatusNotFound, "date not found")
	case eris.Is(err, dataset.ErrUnreadableDate):
		writeError(w, http.StatusUnprocessableEntity, "no readable export files")
	default:
		zap.L().Error("http handler failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("http: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
