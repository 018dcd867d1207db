// Package store holds the embedded search index: one row per entity per
// date, derived entirely from the export files and safe to delete at any
// time.
package store

import (
	"context"

	"github.com/sells-group/leadindex/internal/model"
)

// Linked holds the mails, audits and evaluations of some folders of a date.
type Linked struct {
	Mails       []model.Mail
	Audits      []model.Audit
	Evaluations []model.Evaluation
}

// Store defines the index operations used by the query engine.
type Store interface {
	// Write path
	IndexDate(ctx context.Context, date string, data model.NormalizedData) error
	Reset(ctx context.Context) error

	// Read path
	IndexedDates(ctx context.Context) ([]model.IndexedDate, error)
	Totals(ctx context.Context) (*model.Totals, error)
	SearchCompanies(ctx context.Context, filter model.SearchFilter) ([]model.EnrichedCompany, int, error)
	SearchPeople(ctx context.Context, query string, limit, offset int) ([]model.DatedPerson, int, error)
	Linked(ctx context.Context, date string, folderIDs []string) (*Linked, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
