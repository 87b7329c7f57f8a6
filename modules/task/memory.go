package task

import (
	"context"
	"slices"
	"strings"
	"sync"

	domain "github.com/Bart3kD/task-manager/domain/task"
)

// MemoryStore keeps tasks in process memory. Listing goes through
// domain.Query over the owner's tasks in ID order.
type MemoryStore struct {
	tasks map[string]domain.Task
	mu    sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]domain.Task),
	}
}

func (s *MemoryStore) Insert(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = clone(*t)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, owner, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, found := s.tasks[id]
	if !found || t.UserID != owner {
		return nil, domain.ErrNotFound
	}
	t = clone(t)
	return &t, nil
}

func (s *MemoryStore) List(ctx context.Context, owner string, f domain.Filter) ([]domain.Task, int64, error) {
	owned, err := s.All(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, t := range owned {
		if f.Match(t) {
			total++
		}
	}
	return domain.Query(owned, f), total, nil
}

func (s *MemoryStore) All(_ context.Context, owner string) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == owner {
			result = append(result, clone(t))
		}
	}
	slices.SortFunc(result, func(a, b domain.Task) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

// Update replaces the stored copy; the column list only matters for SQL.
func (s *MemoryStore) Update(_ context.Context, t *domain.Task, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := s.tasks[t.ID]
	if !found || existing.UserID != t.UserID {
		return domain.ErrNotFound
	}
	s.tasks[t.ID] = clone(*t)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.tasks[id]
	if !found || t.UserID != owner {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// clone detaches the pointer fields so callers cannot mutate stored tasks.
func clone(t domain.Task) domain.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
