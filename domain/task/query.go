package task

import (
	"slices"
	"strings"
)

// Query returns the tasks matching every predicate of f, ordered and
// paginated by f. f is expected to be normalized. The input slice is not
// modified and the result is never nil.
func Query(tasks []Task, f Filter) []Task {
	matched := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			matched = append(matched, t)
		}
	}

	slices.SortStableFunc(matched, func(a, b Task) int {
		return Compare(a, b, f.SortBy, f.Order)
	})

	if f.Offset >= len(matched) {
		return []Task{}
	}
	end := len(matched)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end]
}

// Match reports whether t satisfies every predicate of f.
func (f Filter) Match(t Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil {
		if f.MatchesCompleted() {
			if !t.Completed {
				return false
			}
		} else if t.Status != *f.Status {
			return false
		}
	}
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueAfter)) {
		return false
	}
	return true
}

func matchesSearch(t Task, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
}

// Compare orders a and b by field in the given direction. Tasks without a due
// date sort after every dated task under SortDueDate, in both directions.
func Compare(a, b Task, field SortField, order SortOrder) int {
	if field == SortDueDate {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
	}

	var c int
	switch field {
	case SortUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	case SortDueDate:
		c = a.DueDate.Compare(*b.DueDate)
	case SortPriority:
		c = a.Priority.Rank() - b.Priority.Rank()
	case SortTitle:
		c = strings.Compare(a.Title, b.Title)
	case SortCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if order == OrderDesc {
		return -c
	}
	return c
}
