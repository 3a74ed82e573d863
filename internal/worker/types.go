package worker

import (
	"context"
	"errors"
)

// Job is a unit of work executed by a WorkingPool.
type Job func(ctx context.Context) error

// PoolStatus is the lifecycle state of a WorkingPool.
type PoolStatus string

const (
	PoolStatusCreated PoolStatus = "created"
	PoolStatusActive  PoolStatus = "active"
	PoolStatusStopped PoolStatus = "stopped"
)

var (
	ErrPoolStopped = errors.New("working pool stopped")
	ErrQueueFull   = errors.New("working pool queue full")
)
