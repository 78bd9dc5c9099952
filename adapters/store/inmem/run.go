package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/kompox/tfcsync/domain"
	"github.com/kompox/tfcsync/domain/model"
)

// RunRepository is a thread-safe in-memory implementation of domain.RunRepository.
// Records live as long as the process.
type RunRepository struct {
	mu         sync.RWMutex
	runs       map[string]*model.SyncRun
	deliveries map[string][]*model.Delivery
}

func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs:       make(map[string]*model.SyncRun),
		deliveries: make(map[string][]*model.Delivery),
	}
}

func (r *RunRepository) Create(_ context.Context, run *model.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID == "" {
		run.ID = "run-" + uuid.NewString()
	}
	// Copy to avoid external mutation.
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepository) Get(_ context.Context, id string) (*model.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, model.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (r *RunRepository) List(_ context.Context, limit int) ([]*model.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.SyncRun, 0, len(r.runs))
	for _, v := range r.runs {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RunRepository) Update(_ context.Context, run *model.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.runs[run.ID]
	if !ok {
		return model.ErrRunNotFound
	}
	cp := *run
	// Preserve StartedAt if caller accidentally changed it.
	cp.StartedAt = existing.StartedAt
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepository) AddDelivery(_ context.Context, d *model.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[d.RunID]; !ok {
		return model.ErrRunNotFound
	}
	if d.ID == "" {
		d.ID = "dlv-" + uuid.NewString()
	}
	cp := *d
	r.deliveries[d.RunID] = append(r.deliveries[d.RunID], &cp)
	return nil
}

func (r *RunRepository) ListDeliveries(_ context.Context, runID string) ([]*model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.runs[runID]; !ok {
		return nil, model.ErrRunNotFound
	}
	items := r.deliveries[runID]
	out := make([]*model.Delivery, 0, len(items))
	for _, v := range items {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

// Compile-time assertion.
var _ domain.RunRepository = (*RunRepository)(nil)
