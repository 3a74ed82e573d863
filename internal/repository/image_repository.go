package repository

import (
	"context"
	"fmt"
	"time"

	"cultivation-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IImageRepository interface {
	Create(ctx context.Context, img *models.CultivationImage) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.CultivationImage, error)
}

type ImageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

const imageColumns = `id, cultivation_id, event_id, user_id, object_key, url, filename, file_size, mime_type, width, height, format, created_at`

func (r *ImageRepository) Create(ctx context.Context, img *models.CultivationImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	img.CreatedAt = time.Now()

	query := `
		INSERT INTO cultivation_images (` + imageColumns + `)
		VALUES (:id, :cultivation_id, :event_id, :user_id, :object_key, :url, :filename, :file_size,
			:mime_type, :width, :height, :format, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, img); err != nil {
		return fmt.Errorf("failed to create cultivation image: %w", mapWriteError(err))
	}
	return nil
}

func (r *ImageRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.CultivationImage, error) {
	out := []models.CultivationImage{}
	query := `SELECT ` + imageColumns + ` FROM cultivation_images WHERE event_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &out, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to list event images: %w", err)
	}
	return out, nil
}
