package repository

import (
	"context"
	"fmt"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, message, priority, is_read, metadata, action_url, created_at, read_at`

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (:id, :user_id, :type, :title, :message, :priority, :is_read, :metadata, :action_url, :created_at, :read_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", mapWriteError(err))
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &out, query, userID, unreadOnly, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND user_id = $3`
	_, err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecUpdate, time.Now(), id, userID)
	return notFound(err)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE user_id = $2 AND is_read = FALSE`
	n, err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecUpdate, time.Now(), userID)
	if err != nil && err != utils.ErrNoRowsAffected {
		return 0, err
	}
	return n, nil
}
