package ports

import (
	"context"

	"gospc/domain/core"
	"gospc/domain/run"
)

// RunStorePort persists analysis runs. Runs are append-only.
type RunStorePort interface {
	SaveRun(ctx context.Context, r *run.Run) error
	GetRun(ctx context.Context, id core.RunID) (*run.Run, error)
	ListRuns(ctx context.Context, filters RunFilters) ([]RunSummary, error)
}

// RunFilters for querying runs
type RunFilters struct {
	Kind   *core.RunKind
	Source string
	Limit  int
	Offset int
}

// RunSummary is the list view of a stored run
type RunSummary struct {
	ID          core.RunID     `json:"id" db:"id"`
	Kind        core.RunKind   `json:"kind" db:"kind"`
	Source      string         `json:"source" db:"source"`
	Fingerprint core.Hash      `json:"fingerprint" db:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at" db:"-"`
}
