package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	taskdomain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort defines the interface for reading activity feeds.
type ActivityPort interface {
	Recent(ctx context.Context, sess user.Session, limit int) ([]Entry, error)
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for the activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

func (a *activityAdapter) Recent(ctx context.Context, sess user.Session, limit int) ([]Entry, error) {
	req := ListActivityRequest{Session: sess, Limit: limit}
	var resp ListActivityResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity service call failed: %w", err)
	}

	switch resp.Error {
	case "":
		return resp.Entries, nil
	case taskdomain.ErrUnauthenticated.Error():
		return nil, taskdomain.ErrUnauthenticated
	default:
		return nil, errors.New(resp.Error)
	}
}
