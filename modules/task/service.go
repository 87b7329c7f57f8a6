package task

import (
	"context"
	"time"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/Bart3kD/task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// Page is one slice of a filtered task listing.
type Page struct {
	Tasks  []domain.Task `json:"tasks"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Service implements the task operations on top of a Store. Every operation
// runs as the given session and is scoped to its user.
type Service struct {
	store    Store
	logger   types.Logger
	eventBus mono.EventBus
	now      func() time.Time
	loc      *time.Location
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithEventBus enables event publishing.
func WithEventBus(bus mono.EventBus) ServiceOption {
	return func(s *Service) { s.eventBus = bus }
}

// NewService creates a task service.
func NewService(store Store, logger types.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Create validates in and stores a new task owned by the session user.
func (s *Service) Create(ctx context.Context, sess user.Session, in domain.CreateInput) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	now := s.clock()
	t, err := in.Build(now)
	if err != nil {
		return nil, err
	}
	t.ID = uuid.New().String()
	t.UserID = sess.UserID
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.store.Insert(ctx, &t); err != nil {
		return nil, err
	}
	s.logger.Info("Task created", "task_id", t.ID, "user_id", t.UserID)

	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt,
	}
	if t.DueDate != nil {
		event.DueDate = t.DueDate.In(s.loc).Format(domain.DateLayout)
	}
	s.publish("TaskCreated", t.ID, func() error {
		return events.TaskCreatedV1.Publish(s.eventBus, event, nil)
	})
	return &t, nil
}

// Get returns one of the session user's tasks.
func (s *Service) Get(ctx context.Context, sess user.Session, id string) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.Get(ctx, sess.UserID, id)
}

// List returns the page of the session user's tasks selected by f.
func (s *Service) List(ctx context.Context, sess user.Session, f domain.Filter) (*Page, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	tasks, total, err := s.store.List(ctx, sess.UserID, f)
	if err != nil {
		return nil, err
	}
	return &Page{Tasks: tasks, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Update applies a partial update. Unlike Create it accepts past due dates.
func (s *Service) Update(ctx context.Context, sess user.Session, id string, in domain.UpdateInput) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	t, err := s.store.Get(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	if in.Empty() {
		return t, nil
	}
	columns, err := in.ApplyTo(t, s.loc)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt = s.clock()

	if err := s.store.Update(ctx, t, columns); err != nil {
		return nil, err
	}
	s.logger.Info("Task updated", "task_id", t.ID, "fields", columns)

	event := events.TaskUpdatedEvent{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Fields:    columns,
		UpdatedAt: t.UpdatedAt,
	}
	s.publish("TaskUpdated", t.ID, func() error {
		return events.TaskUpdatedV1.Publish(s.eventBus, event, nil)
	})
	return t, nil
}

// Toggle flips the completed flag of a task. Status is left as is.
func (s *Service) Toggle(ctx context.Context, sess user.Session, id string) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	t, err := s.store.Get(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.clock()

	if err := s.store.Update(ctx, t, []string{"completed"}); err != nil {
		return nil, err
	}
	s.logger.Info("Task toggled", "task_id", t.ID, "completed", t.Completed)

	event := events.TaskToggledEvent{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		ToggledAt: t.UpdatedAt,
	}
	s.publish("TaskToggled", t.ID, func() error {
		return events.TaskToggledV1.Publish(s.eventBus, event, nil)
	})
	return t, nil
}

// Delete removes one of the session user's tasks.
func (s *Service) Delete(ctx context.Context, sess user.Session, id string) error {
	if !sess.Authenticated() {
		return domain.ErrUnauthenticated
	}

	if err := s.store.Delete(ctx, sess.UserID, id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", "task_id", id, "user_id", sess.UserID)

	event := events.TaskDeletedEvent{
		TaskID:    id,
		UserID:    sess.UserID,
		DeletedAt: s.clock(),
	}
	s.publish("TaskDeleted", id, func() error {
		return events.TaskDeletedV1.Publish(s.eventBus, event, nil)
	})
	return nil
}

// Stats aggregates every task of the session user as of now.
func (s *Service) Stats(ctx context.Context, sess user.Session) (*domain.Stats, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	tasks, err := s.store.All(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	stats := domain.Aggregate(tasks, s.clock())
	return &stats, nil
}

// publish is best-effort: failures are logged, never returned.
func (s *Service) publish(name, taskID string, send func() error) {
	if s.eventBus == nil {
		return
	}
	if err := send(); err != nil {
		s.logger.Warn("Failed to publish event", "event", name, "task_id", taskID, "error", err)
	}
}
