package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type IEventRepository interface {
	// Create inserts the event and applies cultivationUpdates to its
	// cultivation in the same transaction. Nil or empty updates only insert.
	Create(ctx context.Context, e *models.CultivationEvent, cultivationUpdates map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CultivationEvent, error)
	ListByCultivation(ctx context.Context, cultivationID uuid.UUID) ([]models.CultivationEvent, error)
	Delete(ctx context.Context, e *models.CultivationEvent, cultivationUpdates map[string]any) error
	LatestByType(ctx context.Context, cultivationID uuid.UUID) (map[models.EventType]time.Time, error)
	LatestEnvironment(ctx context.Context, cultivationID uuid.UUID) (*models.EnvironmentReading, error)
	// ListRecentByUser returns the user's newest events across all cultivations.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CultivationEvent, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, cultivation_id, user_id, type, title, description, event_date, details, created_at`

func (r *EventRepository) Create(ctx context.Context, e *models.CultivationEvent, cultivationUpdates map[string]any) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()

	query := `
		INSERT INTO cultivation_events (` + eventColumns + `)
		VALUES (:id, :cultivation_id, :user_id, :type, :title, :description, :event_date, :details, :created_at)`
	return r.withCultivationUpdate(ctx, e.CultivationID, cultivationUpdates, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, e); err != nil {
			return fmt.Errorf("failed to create cultivation event: %w", mapWriteError(err))
		}
		return nil
	})
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CultivationEvent, error) {
	var e models.CultivationEvent
	query := `SELECT ` + eventColumns + ` FROM cultivation_events WHERE id = $1`
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EventRepository) ListByCultivation(ctx context.Context, cultivationID uuid.UUID) ([]models.CultivationEvent, error) {
	out := []models.CultivationEvent{}
	query := `SELECT ` + eventColumns + `
		FROM cultivation_events
		WHERE cultivation_id = $1
		ORDER BY event_date ASC`
	if err := r.db.SelectContext(ctx, &out, query, cultivationID); err != nil {
		return nil, fmt.Errorf("failed to list cultivation events: %w", err)
	}
	return out, nil
}

func (r *EventRepository) Delete(ctx context.Context, e *models.CultivationEvent, cultivationUpdates map[string]any) error {
	return r.withCultivationUpdate(ctx, e.CultivationID, cultivationUpdates, func(tx *sqlx.Tx) error {
		_, err := utils.ExecWithCheck(ctx, tx, `DELETE FROM cultivation_events WHERE id = $1`, utils.ExecDelete, e.ID)
		return notFound(err)
	})
}

// withCultivationUpdate runs write and then the cultivation update inside one
// transaction. Either both land or neither does.
func (r *EventRepository) withCultivationUpdate(ctx context.Context, cultivationID uuid.UUID, updates map[string]any, write func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin transaction", "cultivation_id", cultivationID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := write(tx); err != nil {
		return err
	}

	if len(updates) > 0 {
		q, err := utils.BuildDynamicUpdateQuery(CultivationUpdateSpec, updates, "id", cultivationID, time.Now())
		if err != nil {
			return err
		}
		if _, err := utils.ExecWithCheck(ctx, tx, q.Query, utils.ExecUpdate, q.Args...); err != nil {
			return fmt.Errorf("failed to update cultivation: %w", notFound(err))
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit event transaction", "cultivation_id", cultivationID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LatestByType returns the most recent event date for every event type the
// cultivation has.
func (r *EventRepository) LatestByType(ctx context.Context, cultivationID uuid.UUID) (map[models.EventType]time.Time, error) {
	var rows []struct {
		Type   models.EventType `db:"type"`
		Latest time.Time        `db:"latest"`
	}
	query := `
		SELECT type, MAX(event_date) AS latest
		FROM cultivation_events
		WHERE cultivation_id = $1
		GROUP BY type`
	if err := r.db.SelectContext(ctx, &rows, query, cultivationID); err != nil {
		return nil, fmt.Errorf("failed to load latest events: %w", err)
	}

	out := make(map[models.EventType]time.Time, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Latest
	}
	return out, nil
}

// LatestEnvironment returns nil when no event ever recorded a reading.
func (r *EventRepository) LatestEnvironment(ctx context.Context, cultivationID uuid.UUID) (*models.EnvironmentReading, error) {
	var e models.CultivationEvent
	query := `SELECT ` + eventColumns + `
		FROM cultivation_events
		WHERE cultivation_id = $1
		  AND details ?| $2
		ORDER BY event_date DESC
		LIMIT 1`
	err := r.db.GetContext(ctx, &e, query, cultivationID, pq.Array(models.EnvironmentDetailKeys))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load environment reading: %w", err)
	}
	return e.Environment(), nil
}

func (r *EventRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CultivationEvent, error) {
	out := []models.CultivationEvent{}
	query := `SELECT ` + eventColumns + `
		FROM cultivation_events
		WHERE user_id = $1
		ORDER BY event_date DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return out, nil
}

func (r *EventRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM cultivation_events WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
