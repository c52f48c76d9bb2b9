package rdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kompox/amlops/domain"
	"github.com/kompox/amlops/domain/model"
)

// RunRepository is a GORM-backed implementation of domain.RunRepository.
type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func runToRecord(r *model.Run) *RunRecord {
	rec := &RunRecord{
		ID:             r.ID,
		SubscriptionID: r.SubscriptionID,
		ResourceGroup:  r.ResourceGroup,
		Workspace:      r.Workspace,
		Status:         r.Status,
		Error:          r.Error,
		StartedAt:      r.StartedAt,
	}
	if !r.FinishedAt.IsZero() {
		t := r.FinishedAt
		rec.FinishedAt = &t
	}
	return rec
}

func runToModel(rec *RunRecord) *model.Run {
	r := &model.Run{
		ID:             rec.ID,
		SubscriptionID: rec.SubscriptionID,
		ResourceGroup:  rec.ResourceGroup,
		Workspace:      rec.Workspace,
		Status:         rec.Status,
		Error:          rec.Error,
		StartedAt:      rec.StartedAt,
	}
	if rec.FinishedAt != nil {
		r.FinishedAt = *rec.FinishedAt
	}
	return r
}

func (r *RunRepository) CreateRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = "run-" + uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(runToRecord(run)).Error
}

func (r *RunRepository) UpdateRun(ctx context.Context, run *model.Run) error {
	rec := runToRecord(run)
	res := r.db.WithContext(ctx).Model(&RunRecord{}).Where("id = ?", rec.ID).Updates(map[string]any{
		"status":      rec.Status,
		"error":       rec.Error,
		"finished_at": rec.FinishedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var rec RunRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRunNotFound
		}
		return nil, err
	}
	return runToModel(&rec), nil
}

func (r *RunRepository) ListRuns(ctx context.Context) ([]*model.Run, error) {
	var recs []RunRecord
	if err := r.db.WithContext(ctx).Order("started_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Run, 0, len(recs))
	for i := range recs {
		out = append(out, runToModel(&recs[i]))
	}
	return out, nil
}

func (r *RunRepository) AppendStep(ctx context.Context, s *model.StepRecord) error {
	if _, err := r.GetRun(ctx, s.RunID); err != nil {
		return fmt.Errorf("append step %d: %w", s.Seq, err)
	}
	rec := &StepRecord{
		RunID:      s.RunID,
		Seq:        s.Seq,
		Kind:       s.Kind,
		Name:       s.Name,
		Action:     s.Action,
		ResourceID: s.ResourceID,
		Error:      s.Error,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RunRepository) ListSteps(ctx context.Context, runID string) ([]*model.StepRecord, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	var recs []StepRecord
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("seq ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.StepRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &model.StepRecord{
			RunID:      rec.RunID,
			Seq:        rec.Seq,
			Kind:       rec.Kind,
			Name:       rec.Name,
			Action:     rec.Action,
			ResourceID: rec.ResourceID,
			Error:      rec.Error,
			StartedAt:  rec.StartedAt,
			FinishedAt: rec.FinishedAt,
		})
	}
	return out, nil
}

// Ensure interface satisfaction.
var _ domain.RunRepository = (*RunRepository)(nil)
