package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries kept per user.
const DefaultCapacity = 200

// Kind names the task change an entry records.
type Kind string

const (
	KindCreated   Kind = "task_created"
	KindUpdated   Kind = "task_updated"
	KindCompleted Kind = "task_completed"
	KindReopened  Kind = "task_reopened"
	KindDeleted   Kind = "task_deleted"
)

// Entry is one item of a user's activity feed.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent entries for each user.
type Feed struct {
	mu       sync.RWMutex
	capacity int
	byUser   map[string][]Entry
}

// NewFeed creates a feed holding at most capacity entries per user.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		capacity: capacity,
		byUser:   make(map[string][]Entry),
	}
}

// Record appends an entry for userID, dropping the oldest when full.
func (f *Feed) Record(userID string, e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries := append(f.byUser[userID], e)
	if over := len(entries) - f.capacity; over > 0 {
		entries = append(entries[:0:0], entries[over:]...)
	}
	f.byUser[userID] = entries
	return e
}

// Recent returns up to limit entries for userID, newest first.
func (f *Feed) Recent(userID string, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries := f.byUser[userID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	result := make([]Entry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, entries[i])
	}
	return result
}

// Len returns the number of entries held for userID.
func (f *Feed) Len(userID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byUser[userID])
}
