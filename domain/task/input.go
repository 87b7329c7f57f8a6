package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form accepted for due dates.
const DateLayout = "2006-01-02"

// CreateInput is the raw form submitted to create a task. Empty strings mean
// "not set" for the optional fields.
type CreateInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in_progress completed cancelled"`
	DueDate     string `json:"due_date"`
}

// Build validates the input and returns the task fields it describes. The
// due date may not fall before the start of now's calendar day. ID, owner and
// timestamps are left for the caller.
func (in CreateInput) Build(now time.Time) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)

	verr := &ValidationError{}
	if err := checkStruct(in, verr); err != nil {
		return Task{}, err
	}

	due, ok := parseDueDate(in.DueDate, now.Location(), verr)
	if ok && due != nil && due.Before(StartOfDay(now)) {
		verr.Add("due_date", "must not be in the past")
	}
	if err := verr.OrNil(); err != nil {
		return Task{}, err
	}

	t := Task{
		Title:       in.Title,
		Description: optionalText(in.Description),
		Priority:    DefaultPriority,
		Status:      DefaultStatus,
		DueDate:     due,
	}
	if in.Priority != "" {
		p, err := ParsePriority(in.Priority)
		if err != nil {
			return Task{}, err
		}
		t.Priority = p
	}
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return Task{}, err
		}
		t.Status = st
	}
	return t, nil
}

// UpdateInput is a partial update. Nil fields are left unchanged; an empty
// or null description or due date clears the field.
type UpdateInput struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=1000"`
	Priority    *string `json:"priority,omitempty" validate:"omitnil,oneof=low medium high urgent"`
	Status      *string `json:"status,omitempty" validate:"omitnil,oneof=todo in_progress completed cancelled"`
	DueDate     *string `json:"due_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// UnmarshalJSON decodes a partial update. An explicit null for description or
// due_date is read as "" so it clears the field; the other fields are not
// nullable.
func (in *UpdateInput) UnmarshalJSON(data []byte) error {
	type fields UpdateInput
	var out fields
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if !bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		switch key {
		case "description":
			out.Description = new(string)
		case "due_date":
			out.DueDate = new(string)
		case "title", "priority", "status", "completed":
			return fmt.Errorf("%s must not be null", key)
		}
	}
	*in = UpdateInput(out)
	return nil
}

// Empty reports whether the update changes nothing.
func (in UpdateInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Priority == nil &&
		in.Status == nil && in.DueDate == nil && in.Completed == nil
}

// ApplyTo validates the update and writes it onto t, returning the column
// names that changed. Past due dates are accepted here.
func (in UpdateInput) ApplyTo(t *Task, loc *time.Location) ([]string, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}

	verr := &ValidationError{}
	if err := checkStruct(in, verr); err != nil {
		return nil, err
	}
	var due *time.Time
	if in.DueDate != nil {
		due, _ = parseDueDate(*in.DueDate, loc, verr)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var columns []string
	if in.Title != nil {
		t.Title = *in.Title
		columns = append(columns, "title")
	}
	if in.Description != nil {
		t.Description = optionalText(*in.Description)
		columns = append(columns, "description")
	}
	if in.Priority != nil {
		p, err := ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = p
		columns = append(columns, "priority")
	}
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		t.Status = st
		columns = append(columns, "status")
	}
	if in.DueDate != nil {
		t.DueDate = due
		columns = append(columns, "due_date")
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
		columns = append(columns, "completed")
	}
	return columns, nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp. The second
// result is false when s was rejected.
func parseDueDate(s string, loc *time.Location, verr *ValidationError) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return &d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return &d, true
	}
	verr.Add("due_date", "must be a valid date (YYYY-MM-DD)")
	return nil, false
}
