package task

import (
	"context"

	domain "github.com/Bart3kD/task-manager/domain/task"
)

// Store persists tasks. Every read and write is scoped to the owning user;
// a task owned by someone else is reported as domain.ErrNotFound.
type Store interface {
	Insert(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, owner, id string) (*domain.Task, error)
	// List returns one page of matching tasks and the number of matches
	// before pagination.
	List(ctx context.Context, owner string, f domain.Filter) ([]domain.Task, int64, error)
	All(ctx context.Context, owner string) ([]domain.Task, error)
	// Update writes the named columns of t plus updated_at.
	Update(ctx context.Context, t *domain.Task, columns []string) error
	Delete(ctx context.Context, owner, id string) error
}
