// Package source finds date directories on disk and reads the export files
// inside them into canonical entity lists.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DateLayout is the directory naming convention for one ingestion run.
const DateLayout = "20060102"

// IsDate reports whether name is a valid YYYYMMDD date.
func IsDate(name string) bool {
	if len(name) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, name)
	return err == nil
}

// DisplayLabel renders a YYYYMMDD date as YYYY-MM-DD.
func DisplayLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("2006-01-02")
}

// Locator enumerates date directories across an ordered list of roots.
type Locator struct {
	roots []string
}

// NewLocator returns a Locator over roots in priority order.
func NewLocator(roots ...string) *Locator {
	return &Locator{roots: roots}
}

// Roots returns the configured roots in priority order.
func (l *Locator) Roots() []string {
	return append([]string(nil), l.roots...)
}

// PrimaryRoot is where new date directories are created.
func (l *Locator) PrimaryRoot() string {
	if len(l.roots) == 0 {
		return ""
	}
	return l.roots[0]
}

// ListDates returns every date directory found under any existing root,
// most recent first. Missing or unreadable roots are skipped.
func (l *Locator) ListDates() []string {
	seen := map[string]bool{}
	for _, root := range l.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) {
				zap.L().Warn("source: read root", zap.String("root", root), zap.Error(err))
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() && IsDate(e.Name()) {
				seen[e.Name()] = true
			}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Dir returns the directory for date under the first root that has it.
func (l *Locator) Dir(date string) (string, bool) {
	if !IsDate(date) {
		return "", false
	}
	for _, root := range l.roots {
		dir := filepath.Join(root, date)
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// CreateDir makes (or returns) the date directory under the primary root.
func (l *Locator) CreateDir(date string) (string, error) {
	if !IsDate(date) {
		return "", eris.Errorf("source: invalid date %q", date)
	}
	root := l.PrimaryRoot()
	if root == "" {
		return "", eris.New("source: no roots configured")
	}
	dir := filepath.Join(root, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "source: create %s", dir)
	}
	return dir, nil
}

// RemoveAll deletes every date directory under every root and returns how
// many were removed. Non-date entries are left alone.
func (l *Locator) RemoveAll() (int, error) {
	removed := 0
	for _, root := range l.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, eris.Wrapf(err, "source: read root %s", root)
		}
		for _, e := range entries {
			if !e.IsDir() || !IsDate(e.Name()) {
				continue
			}
			if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
				return removed, eris.Wrapf(err, "source: remove %s", e.Name())
			}
			removed++
		}
	}
	return removed, nil
}
