package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICooldownRepository gates how often a notification rule may fire for one cultivation.
type ICooldownRepository interface {
	// Acquire returns true when the rule is not cooling down and starts a new cooldown.
	Acquire(ctx context.Context, ruleID, cultivationID string, ttl time.Duration) (bool, error)
	// Release ends a cooldown early, e.g. when the notification it guarded was never stored.
	Release(ctx context.Context, ruleID, cultivationID string) error
}

type CooldownRepository struct {
	client *redis.Client
}

func NewCooldownRepository(client *redis.Client) *CooldownRepository {
	return &CooldownRepository{client: client}
}

func CooldownKey(ruleID, cultivationID string) string {
	return fmt.Sprintf("cultivation:cooldown:%s:%s", ruleID, cultivationID)
}

func (r *CooldownRepository) Acquire(ctx context.Context, ruleID, cultivationID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, CooldownKey(ruleID, cultivationID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire cooldown: %w", err)
	}
	return ok, nil
}

func (r *CooldownRepository) Release(ctx context.Context, ruleID, cultivationID string) error {
	if err := r.client.Del(ctx, CooldownKey(ruleID, cultivationID)).Err(); err != nil {
		return fmt.Errorf("failed to release cooldown: %w", err)
	}
	return nil
}
