package tasks

import (
	"context"
	"sort"
	"sync"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Task
	createErr error
	// deleteBeforeWrite simulates another actor removing the record between
	// the handler's existence check and its write.
	deleteBeforeWrite bool
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindAll(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.byID {
		if f.Matches(t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteBeforeWrite {
		delete(r.byID, t.ID)
	}
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteBeforeWrite {
		delete(r.byID, id)
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubEventRepo struct {
	events []*domain.TaskEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.TaskEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *stubEventRepo) ListByTask(_ context.Context, taskID string) ([]*domain.TaskEvent, error) {
	var out []*domain.TaskEvent
	for _, e := range r.events {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingSink struct {
	events []domain.TaskEvent
}

func (s *recordingSink) Enqueue(e domain.TaskEvent) {
	s.events = append(s.events, e)
}
