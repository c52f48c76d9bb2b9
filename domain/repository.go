package domain

import (
	"context"

	"github.com/kompox/amlops/domain/model"
)

// RunRepository stores the setup run journal.
type RunRepository interface {
	CreateRun(ctx context.Context, r *model.Run) error
	UpdateRun(ctx context.Context, r *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns runs ordered by start time, oldest first.
	ListRuns(ctx context.Context) ([]*model.Run, error)
	AppendStep(ctx context.Context, s *model.StepRecord) error
	// ListSteps returns the steps of a run ordered by Seq.
	ListSteps(ctx context.Context, runID string) ([]*model.StepRecord, error)
}
