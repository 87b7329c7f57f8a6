package task

import "time"

// Stats summarizes one user's tasks.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Urgent     int `json:"urgent"`
	Overdue    int `json:"overdue"`
	DueToday   int `json:"due_today"`
}

// Aggregate computes Stats over tasks in a single pass. Calendar days are
// taken in now's location.
func Aggregate(tasks []Task, now time.Time) Stats {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	var s Stats
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}

		switch t.Status {
		case StatusTodo:
			s.Todo++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted, StatusCancelled:
		}

		if t.Priority == PriorityUrgent {
			s.Urgent++
		}

		if t.Completed || t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(now.Location())
		switch {
		case due.Before(today):
			s.Overdue++
		case due.Before(tomorrow):
			s.DueToday++
		}
	}
	return s
}
