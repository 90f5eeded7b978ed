// Package store persists leads, permits, and run audit records.
//
// Identity rules are enforced at the storage layer, not by check-then-act
// in the application: leads are unique by phone (when present, via a
// partial unique index) and permits by permit number. Inserting a
// duplicate is a quiet skip, never an error, so concurrent imports of
// overlapping data cannot double-insert.
package store

import (
	"context"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

// Store is the persistence gateway consumed by the extraction pipeline.
type Store interface {
	// Leads. InsertLead returns (id, true) on insert and (0, false)
	// when the phone already exists.
	InsertLead(ctx context.Context, lead *model.Lead) (int64, bool, error)
	// InsertLeadsBulk inserts a batch, skipping duplicates, and
	// returns the number actually inserted.
	InsertLeadsBulk(ctx context.Context, leads []model.Lead) (int64, error)
	TopLeads(ctx context.Context, limit int) ([]model.Lead, error)

	// Permits.
	InsertPermit(ctx context.Context, permit *model.Permit) (int64, bool, error)

	// Run audit log.
	StartRun(ctx context.Context, source string) (int64, error)
	CompleteRun(ctx context.Context, runID int64, result model.RunResult) error
	FailRun(ctx context.Context, runID int64, errDetails string) error
	ListRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error)

	// Opt-out compliance list.
	IsOptedOut(ctx context.Context, phone string) (bool, error)
	AddOptOut(ctx context.Context, phone, source string) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
