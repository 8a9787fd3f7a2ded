// Package store persists keyword generation runs and their stage results.
package store

import (
	"context"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status  model.RunStatus `json:"status,omitempty"`
	Company string          `json:"company,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for keyword generation runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, company string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.GenerationResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Stages
	SaveStage(ctx context.Context, runID string, stage model.StageResult) error
	ListStages(ctx context.Context, runID string) ([]model.StageResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
