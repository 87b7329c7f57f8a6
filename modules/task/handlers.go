package task

import (
	"context"

	"github.com/go-monolith/mono"
)

// The request-reply handlers never fail at the transport level: every
// operation error travels back in the response envelope.

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.Session, req.Input)
	if err != nil {
		return TaskResponse{Error: m.serviceError("create-task", err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.Session, req.TaskID)
	if err != nil {
		return TaskResponse{Error: m.serviceError("get-task", err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	page, err := m.service.List(ctx, req.Session, req.Filter)
	if err != nil {
		return ListTasksResponse{Error: m.serviceError("list-tasks", err)}, nil
	}
	return ListTasksResponse{Page: page}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.Session, req.TaskID, req.Input)
	if err != nil {
		return TaskResponse{Error: m.serviceError("update-task", err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) toggleTask(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Toggle(ctx, req.Session, req.TaskID)
	if err != nil {
		return TaskResponse{Error: m.serviceError("toggle-task", err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.Session, req.TaskID); err != nil {
		return DeleteTaskResponse{Error: m.serviceError("delete-task", err)}, nil
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) taskStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.service.Stats(ctx, req.Session)
	if err != nil {
		return StatsResponse{Error: m.serviceError("task-stats", err)}, nil
	}
	return StatsResponse{Stats: stats}, nil
}

// serviceError converts err for the wire and logs store failures.
func (m *TaskModule) serviceError(service string, err error) *ServiceError {
	se := newServiceError(err)
	if se.Code == CodeInternal {
		m.logger.Error("Task operation failed", "service", service, "error", err)
	}
	return se
}
