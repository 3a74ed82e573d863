package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryCooldownRepository keeps cooldowns in process memory. It is used when
// Redis is not configured, so cooldowns reset on restart.
type MemoryCooldownRepository struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryCooldownRepository() *MemoryCooldownRepository {
	return &MemoryCooldownRepository{expires: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryCooldownRepository) Acquire(ctx context.Context, ruleID, cultivationID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, exp := range r.expires {
		if !exp.After(now) {
			delete(r.expires, k)
		}
	}

	key := CooldownKey(ruleID, cultivationID)
	if _, active := r.expires[key]; active {
		return false, nil
	}
	r.expires[key] = now.Add(ttl)
	return true, nil
}

func (r *MemoryCooldownRepository) Release(ctx context.Context, ruleID, cultivationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.expires, CooldownKey(ruleID, cultivationID))
	return nil
}
