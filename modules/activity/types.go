package activity

import "github.com/Bart3kD/task-manager/domain/user"

const (
	defaultListLimit = 50
	maxListLimit     = DefaultCapacity
)

// ListActivityRequest asks for the caller's recent activity.
type ListActivityRequest struct {
	Session user.Session `json:"session"`
	Limit   int          `json:"limit,omitempty"`
}

// ListActivityResponse carries the feed, newest first.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
	Error   string  `json:"error,omitempty"`
}
