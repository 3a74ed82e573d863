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

type ICultivationRepository interface {
	Create(ctx context.Context, c *models.Cultivation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cultivation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Cultivation, error)
	ListActive(ctx context.Context) ([]models.Cultivation, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CultivationRepository struct {
	db *sqlx.DB
}

func NewCultivationRepository(db *sqlx.DB) *CultivationRepository {
	return &CultivationRepository{db: db}
}

const cultivationColumns = `
	id, user_id, name, seed_strain, plant_type, genetics_name, cycle_preset_id, status,
	start_date, end_date, flowering_date, harvest_date, curing_date,
	yield_g, profit_brl, photo_url, has_severe_problems,
	setup_params, cycle_params, market_params, timeline_overrides,
	created_at, updated_at`

var CultivationUpdateSpec = utils.UpdateSpec{
	Table: "cultivations",
	AllowedFields: map[string]bool{
		"name": true, "seed_strain": true, "status": true,
		"end_date": true, "flowering_date": true, "harvest_date": true, "curing_date": true,
		"yield_g": true, "profit_brl": true, "photo_url": true, "has_severe_problems": true,
		"setup_params": true, "cycle_params": true, "market_params": true, "timeline_overrides": true,
	},
	JSONFields: map[string]bool{
		"setup_params": true, "cycle_params": true, "market_params": true, "timeline_overrides": true,
	},
	AutoAddUpdatedAt: true,
}

func (r *CultivationRepository) Create(ctx context.Context, c *models.Cultivation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO cultivations (` + cultivationColumns + `
		) VALUES (
			:id, :user_id, :name, :seed_strain, :plant_type, :genetics_name, :cycle_preset_id, :status,
			:start_date, :end_date, :flowering_date, :harvest_date, :curing_date,
			:yield_g, :profit_brl, :photo_url, :has_severe_problems,
			:setup_params, :cycle_params, :market_params, :timeline_overrides,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create cultivation: %w", mapWriteError(err))
	}
	return nil
}

func (r *CultivationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Cultivation, error) {
	var c models.Cultivation
	query := `SELECT ` + cultivationColumns + ` FROM cultivations WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CultivationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Cultivation, error) {
	out := []models.Cultivation{}
	query := `SELECT ` + cultivationColumns + `
		FROM cultivations
		WHERE user_id = $1
		ORDER BY start_date DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list cultivations: %w", err)
	}
	return out, nil
}

func (r *CultivationRepository) ListActive(ctx context.Context) ([]models.Cultivation, error) {
	out := []models.Cultivation{}
	query := `SELECT ` + cultivationColumns + ` FROM cultivations WHERE status = $1`
	if err := r.db.SelectContext(ctx, &out, query, models.CultivationActive); err != nil {
		return nil, fmt.Errorf("failed to list active cultivations: %w", err)
	}
	return out, nil
}

func (r *CultivationRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	q, err := utils.BuildDynamicUpdateQuery(CultivationUpdateSpec, updates, "id", id, time.Now())
	if err != nil {
		return err
	}
	if _, err := utils.ExecWithCheck(ctx, r.db, q.Query, utils.ExecUpdate, q.Args...); err != nil {
		return notFound(err)
	}
	return nil
}

func (r *CultivationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := utils.ExecWithCheck(ctx, r.db, `DELETE FROM cultivations WHERE id = $1`, utils.ExecDelete, id)
	return notFound(err)
}
