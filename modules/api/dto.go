package api

import (
	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/Bart3kD/task-manager/modules/activity"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ActivityResponse lists the caller's recent activity, newest first.
type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
}
