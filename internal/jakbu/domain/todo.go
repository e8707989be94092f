package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for todo dates.
const DateLayout = "2006-01-02"

type TodoStatus string

const (
	TodoStatusTodo TodoStatus = "TODO"
	TodoStatusDone TodoStatus = "DONE"
)

// Toggled flips TODO and DONE.
func (s TodoStatus) Toggled() TodoStatus {
	if s == TodoStatusDone {
		return TodoStatusTodo
	}
	return TodoStatusDone
}

type Todo struct {
	ID         int64
	IdentityID int64
	Title      string
	Date       string // YYYY-MM-DD
	Status     TodoStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.Format(DateLayout), nil
}

// Day formats t in loc as a calendar day.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
