package activity

import (
	"context"
	"encoding/json"
	"fmt"

	taskdomain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// ActivityModule records task events into per-user feeds.
type ActivityModule struct {
	feed   *Feed
	logger types.Logger
}

var (
	_ mono.Module                = (*ActivityModule)(nil)
	_ mono.EventConsumerModule   = (*ActivityModule)(nil)
	_ mono.ServiceProviderModule = (*ActivityModule)(nil)
)

// NewModule creates an activity module keeping capacity entries per user.
func NewModule(capacity int, logger types.Logger) *ActivityModule {
	return &ActivityModule{
		feed:   NewFeed(capacity),
		logger: logger,
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

// Feed returns the underlying feed.
func (m *ActivityModule) Feed() *Feed {
	return m.feed
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskToggledV1, m.handleTaskToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"TaskCreated.v1", "TaskUpdated.v1", "TaskToggled.v1", "TaskDeleted.v1"})
	return nil
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}

	m.logger.Info("Registered services", "services", "list-activity")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(event.UserID, Entry{
		Kind:      KindCreated,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Created task %q", event.Title),
		Timestamp: event.CreatedAt,
	})
	m.logger.Debug("Recorded task creation", "task_id", event.TaskID, "user_id", event.UserID)
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.feed.Record(event.UserID, Entry{
		Kind:      KindUpdated,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Updated task %q", event.Title),
		Timestamp: event.UpdatedAt,
	})
	m.logger.Debug("Recorded task update", "task_id", event.TaskID, "fields", event.Fields)
	return nil
}

func (m *ActivityModule) handleTaskToggled(_ context.Context, event events.TaskToggledEvent, _ *mono.Msg) error {
	entry := Entry{
		Kind:      KindReopened,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Reopened task %q", event.Title),
		Timestamp: event.ToggledAt,
	}
	if event.Completed {
		entry.Kind = KindCompleted
		entry.Message = fmt.Sprintf("Completed task %q", event.Title)
	}
	m.feed.Record(event.UserID, entry)
	m.logger.Debug("Recorded task toggle", "task_id", event.TaskID, "completed", event.Completed)
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.feed.Record(event.UserID, Entry{
		Kind:      KindDeleted,
		TaskID:    event.TaskID,
		Message:   "Deleted a task",
		Timestamp: event.DeletedAt,
	})
	m.logger.Debug("Recorded task deletion", "task_id", event.TaskID, "user_id", event.UserID)
	return nil
}

func (m *ActivityModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	if !req.Session.Authenticated() {
		return ListActivityResponse{Entries: []Entry{}, Error: taskdomain.ErrUnauthenticated.Error()}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return ListActivityResponse{Entries: m.feed.Recent(req.Session.UserID, limit)}, nil
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started, listening for task events", "capacity", m.feed.capacity)
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
