package task

import (
	"context"
	"errors"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/domain/user"
)

// Error codes carried across the request-reply boundary.
const (
	CodeValidation      = "validation"
	CodeNotFound        = "not_found"
	CodeUnauthenticated = "unauthenticated"
	CodeInternal        = "internal"
)

// ServiceError is the wire form of a failed task operation.
type ServiceError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// newServiceError classifies err for transport.
func newServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ServiceError{Code: CodeValidation, Message: verr.Error(), Fields: verr.Fields}
	case errors.Is(err, domain.ErrNotFound):
		return &ServiceError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return &ServiceError{Code: CodeUnauthenticated, Message: err.Error()}
	}
	return &ServiceError{Code: CodeInternal, Message: err.Error()}
}

// Err rebuilds a Go error that matches the domain sentinels again.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case CodeValidation:
		return &domain.ValidationError{Fields: e.Fields}
	case CodeNotFound:
		return domain.ErrNotFound
	case CodeUnauthenticated:
		return domain.ErrUnauthenticated
	}
	return errors.New(e.Message)
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Session user.Session       `json:"session"`
	Input   domain.CreateInput `json:"input"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	Session user.Session `json:"session"`
	TaskID  string       `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	Session user.Session  `json:"session"`
	Filter  domain.Filter `json:"filter"`
}

// UpdateTaskRequest is the request for a partial update.
type UpdateTaskRequest struct {
	Session user.Session       `json:"session"`
	TaskID  string             `json:"task_id"`
	Input   domain.UpdateInput `json:"input"`
}

// ToggleTaskRequest is the request for flipping completion.
type ToggleTaskRequest struct {
	Session user.Session `json:"session"`
	TaskID  string       `json:"task_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	Session user.Session `json:"session"`
	TaskID  string       `json:"task_id"`
}

// StatsRequest is the request for the caller's task statistics.
type StatsRequest struct {
	Session user.Session `json:"session"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Page  *Page         `json:"page,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	Error   *ServiceError `json:"error,omitempty"`
}

// StatsResponse is the response for task statistics.
type StatsResponse struct {
	Stats *domain.Stats `json:"stats,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// TaskPort defines the task operations driving adapters (like the HTTP API)
// use. Both *Service and the request-reply adapter implement it.
type TaskPort interface {
	Create(ctx context.Context, sess user.Session, in domain.CreateInput) (*domain.Task, error)
	Get(ctx context.Context, sess user.Session, id string) (*domain.Task, error)
	List(ctx context.Context, sess user.Session, f domain.Filter) (*Page, error)
	Update(ctx context.Context, sess user.Session, id string, in domain.UpdateInput) (*domain.Task, error)
	Toggle(ctx context.Context, sess user.Session, id string) (*domain.Task, error)
	Delete(ctx context.Context, sess user.Session, id string) error
	Stats(ctx context.Context, sess user.Session) (*domain.Stats, error)
}

var _ TaskPort = (*Service)(nil)
