// Package model defines the shared value types for tasks, categories,
// time logs, and TO-DO items.
package model

import (
	"fmt"
	"regexp"
	"time"
)

// Default render colors used when a task's category reference dangles
// (e.g. the category was deleted after the task was saved).
const (
	DefaultColor     = "#3b82f6"
	DefaultTextColor = "#ffffff"
)

// DateLayout and TimeLayout are the wire formats for date/time pairs.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Task is a time-boxed calendar entry. ID is empty until the first
// successful save, then immutable.
type Task struct {
	ID                  string   `json:"id,omitempty"`
	Title               string   `json:"title"`
	StartDate           string   `json:"startDate"`
	StartTime           string   `json:"startTime"`
	EndDate             string   `json:"endDate"`
	EndTime             string   `json:"endTime"`
	Category            string   `json:"category,omitempty"`
	SecondaryCategories []string `json:"secondaryCategories,omitempty"`
	Description         string   `json:"description,omitempty"`
}

// Start returns the combined start instant of the task.
func (t Task) Start() (time.Time, error) {
	return CombineDateTime(t.StartDate, t.StartTime)
}

// End returns the combined end instant of the task.
func (t Task) End() (time.Time, error) {
	return CombineDateTime(t.EndDate, t.EndTime)
}

// Clone returns a value copy of the task with its own secondary slice,
// so edits to the copy cannot leak back into the original.
func (t Task) Clone() Task {
	c := t
	if t.SecondaryCategories != nil {
		c.SecondaryCategories = make([]string, len(t.SecondaryCategories))
		copy(c.SecondaryCategories, t.SecondaryCategories)
	}
	return c
}

// Category is a user-scoped label with render colors.
type Category struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

// TimeLog is a discrete elapsed-time entry against a task.
type TimeLog struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id,omitempty"`
	Duration  int       `json:"duration"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"timestamp"`
}

// TodoItem is an entry in the user's ordered TO-DO list. Order is a
// first-class attribute kept by position, not derived from CreatedAt.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoUpdate is a partial update for a TO-DO item; nil fields are left
// unchanged.
type TodoUpdate struct {
	Completed *bool   `json:"completed,omitempty"`
	Text      *string `json:"text,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// CombineDateTime parses a YYYY-MM-DD date and HH:MM clock into one instant
// in the local timezone.
func CombineDateTime(date, clock string) (time.Time, error) {
	ts, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return ts, nil
}

// SplitDateTime formats an instant back into a date and clock pair.
func SplitDateTime(ts time.Time) (date, clock string) {
	return ts.Format(DateLayout), ts.Format(TimeLayout)
}

// FormatDuration renders whole seconds as HH:MM:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s looks like a hex color. Strict color-space
// validation is the backend's job; this only guards obvious garbage.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
