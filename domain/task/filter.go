package task

import (
	"strconv"
	"strings"
	"time"
)

// SortField names the column a task listing is ordered by.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortDueDate   SortField = "due_date"
	SortPriority  SortField = "priority"
	SortTitle     SortField = "title"
)

// SortOrder is the direction of a listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Listing bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxSearchLen = 255
)

// Filter selects, orders and paginates a user's tasks. A nil predicate field
// does not filter on that axis.
type Filter struct {
	Completed *bool      `json:"completed,omitempty"`
	Priority  *Priority  `json:"priority,omitempty" validate:"omitnil,oneof=low medium high urgent"`
	Status    *Status    `json:"status,omitempty" validate:"omitnil,oneof=todo in_progress completed cancelled"`
	Search    string     `json:"search,omitempty" validate:"max=255"`
	DueBefore *time.Time `json:"due_before,omitempty"`
	DueAfter  *time.Time `json:"due_after,omitempty"`
	SortBy    SortField  `json:"sort_by" validate:"oneof=created_at updated_at due_date priority title"`
	Order     SortOrder  `json:"sort_order" validate:"oneof=asc desc"`
	Limit     int        `json:"limit" validate:"min=1,max=100"`
	Offset    int        `json:"offset" validate:"min=0"`
}

// Normalize fills unset sort and pagination fields with their defaults.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.SortBy == "" {
		f.SortBy = SortCreatedAt
	}
	if f.Order == "" {
		f.Order = OrderDesc
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	return f
}

// Validate checks a normalized filter.
func (f Filter) Validate() error {
	verr := &ValidationError{}
	if err := checkStruct(f, verr); err != nil {
		return err
	}
	return verr.OrNil()
}

// MatchesCompleted reports whether a status filter stands in for the
// completed flag. Status "completed" is answered from Task.Completed, not from
// Task.Status.
func (f Filter) MatchesCompleted() bool {
	return f.Status != nil && *f.Status == StatusCompleted
}

// ParseFilter builds a filter from string query parameters, as sent by a
// list view. Unparseable values are reported as validation errors. A
// due_before given as a calendar date includes tasks due at any time that day.
func ParseFilter(get func(key string) string, loc *time.Location) (Filter, error) {
	var f Filter
	verr := &ValidationError{}

	if v := get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			verr.Add("completed", "must be true or false")
		} else {
			f.Completed = &b
		}
	}
	if v := get("priority"); v != "" {
		if p, err := ParsePriority(v); err != nil {
			verr.Add("priority", "must be one of: low, medium, high, urgent")
		} else {
			f.Priority = &p
		}
	}
	if v := get("status"); v != "" {
		if s, err := ParseStatus(v); err != nil {
			verr.Add("status", "must be one of: todo, in_progress, completed, cancelled")
		} else {
			f.Status = &s
		}
	}
	f.Search = get("search")
	if v := get("due_before"); v != "" {
		if d, ok := parseDueDate(v, loc, verr); ok {
			if isCalendarDate(v) {
				// a calendar date bound covers that whole day
				end := d.AddDate(0, 0, 1).Add(-time.Microsecond)
				d = &end
			}
			f.DueBefore = d
		} else {
			renameLast(verr, "due_before")
		}
	}
	if v := get("due_after"); v != "" {
		if d, ok := parseDueDate(v, loc, verr); ok {
			f.DueAfter = d
		} else {
			renameLast(verr, "due_after")
		}
	}
	f.SortBy = SortField(get("sort_by"))
	f.Order = SortOrder(get("sort_order"))
	f.Limit = parseInt(get("limit"), "limit", verr)
	if get("limit") != "" && f.Limit == 0 {
		// zero would otherwise read as "use the default"
		f.Limit = -1
	}
	f.Offset = parseInt(get("offset"), "offset", verr)

	if err := verr.OrNil(); err != nil {
		return Filter{}, err
	}
	f = f.Normalize()
	return f, f.Validate()
}

func isCalendarDate(v string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(v))
	return err == nil
}

func parseInt(v, field string, verr *ValidationError) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		verr.Add(field, "must be an integer")
		return 0
	}
	return n
}

func renameLast(verr *ValidationError, field string) {
	if n := len(verr.Fields); n > 0 {
		verr.Fields[n-1].Field = field
	}
}
