package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil, time.Now()))
	assert.Equal(t, Stats{}, Aggregate([]Task{}, time.Now()))
}

func TestAggregate_OverdueCountsOnlyIncomplete(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	stats := Aggregate([]Task{
		{Completed: false, DueDate: &yesterday},
		{Completed: true, DueDate: &yesterday},
	}, now)

	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 0, stats.DueToday)
}

func TestAggregate_AllCounters(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)

	earlyToday := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	lateToday := time.Date(2024, 3, 10, 23, 59, 0, 0, loc)
	lastNight := time.Date(2024, 3, 9, 23, 59, 0, 0, loc)
	tomorrow := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)

	tasks := []Task{
		{Status: StatusTodo, Priority: PriorityUrgent, DueDate: &earlyToday},
		{Status: StatusTodo, Priority: PriorityLow, DueDate: &lateToday},
		{Status: StatusInProgress, Priority: PriorityUrgent, DueDate: &lastNight},
		{Status: StatusInProgress, Priority: PriorityHigh, DueDate: &tomorrow},
		{Status: StatusCompleted, Completed: true, Priority: PriorityUrgent, DueDate: &lastNight},
		{Status: StatusCancelled, Priority: PriorityMedium},
		// Completed flag and status disagree; counted by each field separately.
		{Status: StatusTodo, Completed: true, Priority: PriorityMedium, DueDate: &earlyToday},
	}

	want := Stats{
		Total:      7,
		Completed:  2,
		Pending:    5,
		Todo:       3,
		InProgress: 2,
		Urgent:     3,
		Overdue:    1,
		DueToday:   2,
	}
	assert.Equal(t, want, Aggregate(tasks, now))
}

func TestAggregate_UsesCallerCalendarDay(t *testing.T) {
	// 23:30 UTC on the 9th is already the 10th in UTC+2.
	due := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))

	stats := Aggregate([]Task{{DueDate: &due}}, now)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 0, stats.Overdue)
}

func TestAggregate_PendingPlusCompletedIsTotal(t *testing.T) {
	now := time.Now()
	tasks := sampleTasks()
	s := Aggregate(tasks, now)
	assert.Equal(t, s.Total, s.Completed+s.Pending)
	assert.Equal(t, len(tasks), s.Total)
}
