package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/utils"

	"github.com/redis/go-redis/v9"
)

type IAnalysisCacheRepository interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, error)
	Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error
}

type AnalysisCacheRepository struct {
	client *redis.Client
}

func NewAnalysisCacheRepository(client *redis.Client) *AnalysisCacheRepository {
	return &AnalysisCacheRepository{client: client}
}

// AnalysisCacheKey hashes the prompt so identical questions share a cache entry.
func AnalysisCacheKey(userID, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("cultivation:analysis:%s:%s", userID, hex.EncodeToString(sum[:]))
}

// Get returns ErrNotFound on a cache miss.
func (r *AnalysisCacheRepository) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis cache: %w", err)
	}

	var result models.AnalysisResult
	if err := utils.DeserializeModel(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *AnalysisCacheRepository) Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	data, err := utils.SerializeModel(result)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write analysis cache: %w", err)
	}
	return nil
}
