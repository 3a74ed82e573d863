package models

import (
	"time"
	_ "time/tzdata"

	"cultivation-service/internal/utils"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID            `json:"id" db:"id"`
	UserID    string               `json:"user_id" db:"user_id"`
	Type      NotificationType     `json:"type" db:"type"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	Priority  NotificationPriority `json:"priority" db:"priority"`
	IsRead    bool                 `json:"is_read" db:"is_read"`
	Metadata  utils.JSONMap        `json:"metadata,omitempty" db:"metadata"`
	ActionURL *string              `json:"action_url,omitempty" db:"action_url"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	ReadAt    *time.Time           `json:"read_at,omitempty" db:"read_at"`
}

// NotificationPreferences decides which notifications a user receives and
// when push delivery is muted. Quiet hours are whole hours in Timezone and may
// wrap past midnight.
type NotificationPreferences struct {
	UserID          string    `json:"user_id" db:"user_id"`
	Reminders       bool      `json:"reminders" db:"reminders"`
	Alerts          bool      `json:"alerts" db:"alerts"`
	Achievements    bool      `json:"achievements" db:"achievements"`
	Marketing       bool      `json:"marketing" db:"marketing"`
	PushEnabled     bool      `json:"push_enabled" db:"push_enabled"`
	EmailEnabled    bool      `json:"email_enabled" db:"email_enabled"`
	QuietHoursStart int       `json:"quiet_hours_start" db:"quiet_hours_start"`
	QuietHoursEnd   int       `json:"quiet_hours_end" db:"quiet_hours_end"`
	Timezone        string    `json:"timezone" db:"timezone"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

const DefaultTimezone = "America/Sao_Paulo"

func DefaultNotificationPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID:          userID,
		Reminders:       true,
		Alerts:          true,
		Achievements:    true,
		PushEnabled:     true,
		EmailEnabled:    true,
		QuietHoursStart: 22,
		QuietHoursEnd:   8,
		Timezone:        DefaultTimezone,
	}
}

// Allows reports whether notifications of type t should be created at all.
// System notifications are always allowed.
func (p *NotificationPreferences) Allows(t NotificationType) bool {
	switch t {
	case NotificationReminder:
		return p.Reminders
	case NotificationAlert:
		return p.Alerts
	case NotificationAchievement:
		return p.Achievements
	}
	return true
}

// InQuietHours evaluates at in the user's timezone, falling back to UTC when
// the zone is unknown. Equal start and end hours disable quiet hours.
func (p *NotificationPreferences) InQuietHours(at time.Time) bool {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	hour := at.In(loc).Hour()
	start, end := p.QuietHoursStart, p.QuietHoursEnd
	if start <= end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// ShouldPush reports whether a stored notification should also go out as a push event.
func (p *NotificationPreferences) ShouldPush(at time.Time) bool {
	return p.PushEnabled && !p.InQuietHours(at)
}
