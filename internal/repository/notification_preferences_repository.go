package repository

import (
	"context"
	"fmt"
	"time"

	"cultivation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type INotificationPreferencesRepository interface {
	// Get returns ErrNotFound when the user never saved preferences.
	Get(ctx context.Context, userID string) (*models.NotificationPreferences, error)
	Upsert(ctx context.Context, p *models.NotificationPreferences) error
}

type NotificationPreferencesRepository struct {
	db *sqlx.DB
}

func NewNotificationPreferencesRepository(db *sqlx.DB) *NotificationPreferencesRepository {
	return &NotificationPreferencesRepository{db: db}
}

const preferencesColumns = `user_id, reminders, alerts, achievements, marketing, push_enabled, email_enabled,
	quiet_hours_start, quiet_hours_end, timezone, created_at, updated_at`

func (r *NotificationPreferencesRepository) Get(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	var p models.NotificationPreferences
	query := `SELECT ` + preferencesColumns + ` FROM notification_preferences WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if err := notFound(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	return &p, nil
}

func (r *NotificationPreferencesRepository) Upsert(ctx context.Context, p *models.NotificationPreferences) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO notification_preferences (` + preferencesColumns + `)
		VALUES (:user_id, :reminders, :alerts, :achievements, :marketing, :push_enabled, :email_enabled,
			:quiet_hours_start, :quiet_hours_end, :timezone, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			reminders = EXCLUDED.reminders,
			alerts = EXCLUDED.alerts,
			achievements = EXCLUDED.achievements,
			marketing = EXCLUDED.marketing,
			push_enabled = EXCLUDED.push_enabled,
			email_enabled = EXCLUDED.email_enabled,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to save notification preferences: %w", err)
	}
	return nil
}
