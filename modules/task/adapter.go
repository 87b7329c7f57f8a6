package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's request-reply
// services.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func (a *taskAdapter) Create(ctx context.Context, sess user.Session, in domain.CreateInput) (*domain.Task, error) {
	var resp TaskResponse
	req := CreateTaskRequest{Session: sess, Input: in}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-task service call failed: %w", err)
	}
	return resp.Task, resp.Error.Err()
}

func (a *taskAdapter) Get(ctx context.Context, sess user.Session, id string) (*domain.Task, error) {
	var resp TaskResponse
	req := GetTaskRequest{Session: sess, TaskID: id}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-task service call failed: %w", err)
	}
	return resp.Task, resp.Error.Err()
}

func (a *taskAdapter) List(ctx context.Context, sess user.Session, f domain.Filter) (*Page, error) {
	var resp ListTasksResponse
	req := ListTasksRequest{Session: sess, Filter: f}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-tasks service call failed: %w", err)
	}
	return resp.Page, resp.Error.Err()
}

func (a *taskAdapter) Update(ctx context.Context, sess user.Session, id string, in domain.UpdateInput) (*domain.Task, error) {
	var resp TaskResponse
	req := UpdateTaskRequest{Session: sess, TaskID: id, Input: in}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-task service call failed: %w", err)
	}
	return resp.Task, resp.Error.Err()
}

func (a *taskAdapter) Toggle(ctx context.Context, sess user.Session, id string) (*domain.Task, error) {
	var resp TaskResponse
	req := ToggleTaskRequest{Session: sess, TaskID: id}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"toggle-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("toggle-task service call failed: %w", err)
	}
	return resp.Task, resp.Error.Err()
}

func (a *taskAdapter) Delete(ctx context.Context, sess user.Session, id string) error {
	var resp DeleteTaskResponse
	req := DeleteTaskRequest{Session: sess, TaskID: id}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete-task service call failed: %w", err)
	}
	if err := resp.Error.Err(); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", id)
	}
	return nil
}

func (a *taskAdapter) Stats(ctx context.Context, sess user.Session) (*domain.Stats, error) {
	var resp StatsResponse
	req := StatsRequest{Session: sess}
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"task-stats",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("task-stats service call failed: %w", err)
	}
	return resp.Stats, resp.Error.Err()
}
