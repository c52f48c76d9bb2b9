package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kompox/amlops/domain"
	"github.com/kompox/amlops/domain/model"
)

// RunRepository is a thread-safe in-memory run journal.
type RunRepository struct {
	mu    sync.RWMutex
	runs  map[string]*model.Run
	steps map[string][]*model.StepRecord
	seq   int64
}

func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs:  make(map[string]*model.Run),
		steps: make(map[string][]*model.StepRecord),
	}
}

func (r *RunRepository) nextID() string {
	r.seq++
	return fmt.Sprintf("run-%d-%d", time.Now().UnixNano(), r.seq)
}

func (r *RunRepository) CreateRun(_ context.Context, run *model.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID == "" {
		run.ID = r.nextID()
	}
	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepository) UpdateRun(_ context.Context, run *model.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.runs[run.ID]
	if !ok {
		return model.ErrRunNotFound
	}
	cp := *run
	cp.StartedAt = existing.StartedAt
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepository) GetRun(_ context.Context, id string) (*model.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, model.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (r *RunRepository) ListRuns(_ context.Context) ([]*model.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Run, 0, len(r.runs))
	for _, v := range r.runs {
		cp := *v
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (r *RunRepository) AppendStep(_ context.Context, s *model.StepRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[s.RunID]; !ok {
		return model.ErrRunNotFound
	}
	cp := *s
	r.steps[s.RunID] = append(r.steps[s.RunID], &cp)
	return nil
}

func (r *RunRepository) ListSteps(_ context.Context, runID string) ([]*model.StepRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.runs[runID]; !ok {
		return nil, model.ErrRunNotFound
	}
	src := r.steps[runID]
	out := make([]*model.StepRecord, 0, len(src))
	for _, s := range src {
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

var _ domain.RunRepository = (*RunRepository)(nil)
