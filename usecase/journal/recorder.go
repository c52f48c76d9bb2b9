package journal

import (
	"context"
	"time"

	"github.com/kompox/amlops/domain"
	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
)

// Recorder appends the steps of one run. Journal write failures are logged
// and never fail provisioning.
type Recorder struct {
	repo domain.RunRepository
	run  *model.Run
	seq  int
	now  func() time.Time
}

// Start records a new running run for target.
func Start(ctx context.Context, repo domain.RunRepository, target *model.Target) *Recorder {
	rec := &Recorder{repo: repo, now: func() time.Time { return time.Now().UTC() }}
	rec.run = &model.Run{
		SubscriptionID: target.SubscriptionID,
		ResourceGroup:  target.ResourceGroup,
		Workspace:      target.WorkspaceName,
		Status:         model.RunStatusRunning,
		StartedAt:      rec.now(),
	}
	if repo == nil {
		return rec
	}
	if err := repo.CreateRun(ctx, rec.run); err != nil {
		logging.FromContext(ctx).Warn(ctx, "failed to record run", "err", err)
		rec.repo = nil
	}
	return rec
}

// RunID returns the recorded run ID, or empty when journaling is disabled.
func (r *Recorder) RunID() string { return r.run.ID }

// Step records one step outcome. A non-nil stepErr records StepActionFailed.
func (r *Recorder) Step(ctx context.Context, kind, name, action, resourceID string, startedAt time.Time, stepErr error) *model.StepRecord {
	r.seq++
	s := &model.StepRecord{
		RunID:      r.run.ID,
		Seq:        r.seq,
		Kind:       kind,
		Name:       name,
		Action:     action,
		ResourceID: resourceID,
		StartedAt:  startedAt,
		FinishedAt: r.now(),
	}
	if stepErr != nil {
		s.Action = model.StepActionFailed
		s.Error = stepErr.Error()
	}
	if r.repo != nil {
		if err := r.repo.AppendStep(ctx, s); err != nil {
			logging.FromContext(ctx).Warn(ctx, "failed to record step", "kind", kind, "err", err)
		}
	}
	return s
}

// Finish records the final run status.
func (r *Recorder) Finish(ctx context.Context, status string, runErr error) {
	r.run.Status = status
	r.run.FinishedAt = r.now()
	if runErr != nil {
		r.run.Error = runErr.Error()
	}
	if r.repo == nil {
		return
	}
	if err := r.repo.UpdateRun(ctx, r.run); err != nil {
		logging.FromContext(ctx).Warn(ctx, "failed to record run result", "err", err)
	}
}
