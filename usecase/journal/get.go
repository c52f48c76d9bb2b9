package journal

import (
	"context"
	"errors"

	"github.com/kompox/amlops/domain/model"
)

// GetInput identifies a run.
type GetInput struct {
	RunID string `json:"runId"`
}

// GetOutput carries a run and its steps.
type GetOutput struct {
	Run   *model.Run          `json:"run"`
	Steps []*model.StepRecord `json:"steps"`
}

// Get returns a run with its steps in order.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.RunID == "" {
		return nil, errors.New("run id is required")
	}
	run, err := u.Repos.Run.GetRun(ctx, in.RunID)
	if err != nil {
		return nil, err
	}
	steps, err := u.Repos.Run.ListSteps(ctx, in.RunID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Run: run, Steps: steps}, nil
}

// ListInput is reserved for filters.
type ListInput struct{}

// ListOutput carries runs oldest first.
type ListOutput struct {
	Runs []*model.Run `json:"runs"`
}

// List returns every recorded run.
func (u *UseCase) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	runs, err := u.Repos.Run.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*model.Run{}
	}
	return &ListOutput{Runs: runs}, nil
}
