package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// priorityRank orders the priority column low..urgent instead of by text.
const priorityRank = "CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 WHEN 'urgent' THEN 3 ELSE -1 END"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository is the GORM-backed Store.
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert saves a new task.
func (r *Repository) Insert(ctx context.Context, t *domain.Task) error {
	toUTC(t)
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get retrieves one of owner's tasks by ID.
func (r *Repository) Get(ctx context.Context, owner, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ? AND user_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List pushes the filter down to SQL. The page and the total count run
// concurrently.
func (r *Repository) List(ctx context.Context, owner string, f domain.Filter) ([]domain.Task, int64, error) {
	var (
		tasks []domain.Task
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := r.scoped(gctx, owner, f)
		if err := q.Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		q := orderBy(r.scoped(gctx, owner, f), f)
		if err := q.Offset(f.Offset).Limit(f.Limit).Find(&tasks).Error; err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, total, nil
}

// All returns every task owned by owner.
func (r *Repository) All(ctx context.Context, owner string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", owner).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return tasks, nil
}

// Update writes the given columns of t.
func (r *Repository) Update(ctx context.Context, t *domain.Task, columns []string) error {
	toUTC(t)
	cols := append(append([]string{}, columns...), "updated_at")
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Select(cols).
		Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes one of owner's tasks.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ? AND user_id = ?", id, owner)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, owner string, f domain.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Task{}).Where("user_id = ?", owner)

	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", string(*f.Priority))
	}
	if f.Status != nil {
		if f.MatchesCompleted() {
			q = q.Where("completed = ?", true)
		} else {
			q = q.Where("status = ?", string(*f.Status))
		}
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.DueBefore != nil {
		q = q.Where("due_date IS NOT NULL AND due_date <= ?", f.DueBefore.UTC())
	}
	if f.DueAfter != nil {
		q = q.Where("due_date IS NOT NULL AND due_date >= ?", f.DueAfter.UTC())
	}
	return q
}

func orderBy(q *gorm.DB, f domain.Filter) *gorm.DB {
	dir := " DESC"
	if f.Order == domain.OrderAsc {
		dir = " ASC"
	}

	switch f.SortBy {
	case domain.SortDueDate:
		// undated tasks last in both directions
		q = q.Order("due_date IS NULL").Order("due_date" + dir)
	case domain.SortPriority:
		q = q.Order(priorityRank + dir)
	case domain.SortTitle:
		q = q.Order("title" + dir)
	case domain.SortUpdatedAt:
		q = q.Order("updated_at" + dir)
	case domain.SortCreatedAt:
		q = q.Order("created_at" + dir)
	default:
		q = q.Order("created_at" + dir)
	}
	return q.Order("id")
}

// toUTC keeps stored timestamps in one zone so they compare as text in SQLite.
func toUTC(t *domain.Task) {
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}
}
