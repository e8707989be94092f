package domain

import (
	"fmt"
	"time"
)

type ReminderInterval string

const (
	IntervalTwoHour  ReminderInterval = "TWO_HOUR"
	IntervalFourHour ReminderInterval = "FOUR_HOUR"
	IntervalDaily    ReminderInterval = "DAILY"
)

// ParseReminderInterval accepts only the known interval names.
func ParseReminderInterval(s string) (ReminderInterval, error) {
	switch v := ReminderInterval(s); v {
	case IntervalTwoHour, IntervalFourHour, IntervalDaily:
		return v, nil
	}
	return "", fmt.Errorf("unknown interval type %q", s)
}

// Period is the minimum gap between two reminders.
func (i ReminderInterval) Period() time.Duration {
	switch i {
	case IntervalTwoHour:
		return 2 * time.Hour
	case IntervalFourHour:
		return 4 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// NotificationSetting is the per-identity reminder preference.
type NotificationSetting struct {
	ID             int64
	IdentityID     int64
	Interval       ReminderInterval
	Enabled        bool
	LastNotifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReminderTarget pairs an enabled setting with the owner's push address.
type ReminderTarget struct {
	Setting     NotificationSetting
	PushAddress string
}
