// Package store persists the authoritative Applicant/Employee records
// and the published pipeline runs. Records are the only mutable state;
// every derived artifact is recomputed from a Snapshot and published as
// an immutable run result.
package store

import (
	"context"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Store defines the persistence interface for the reconciliation
// pipeline.
type Store interface {
	// Records
	UpsertRecords(ctx context.Context, batch model.Batch) (model.RecordCounts, error)
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	// Role→department mapping state, carried across runs so conflicts
	// with earlier evidence stay detectable.
	Mappings(ctx context.Context) ([]model.RoleMapping, error)
	SaveMappings(ctx context.Context, mappings []model.RoleMapping) error

	// Published runs. PublishRun is all-or-nothing: until it returns,
	// the previously published run stays current.
	PublishRun(ctx context.Context, result *model.RunResult) error
	LatestRun(ctx context.Context) (*model.RunResult, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
