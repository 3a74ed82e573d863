package worker

import (
	"context"
	"log"
	"time"
)

type JobScheduler struct {
	Name     string
	Interval time.Duration
	Jobs     []Job
	Pool     *WorkingPool
	// RunOnStart submits the jobs once before the first tick.
	RunOnStart bool
}

func NewJobScheduler(name string, interval time.Duration, pool *WorkingPool) *JobScheduler {
	return &JobScheduler{
		Name:     name,
		Interval: interval,
		Jobs:     make([]Job, 0),
		Pool:     pool,
	}
}

func (s *JobScheduler) AddJob(job Job) {
	s.Jobs = append(s.Jobs, job)
}

func (s *JobScheduler) Run(ctx context.Context) {
	log.Printf("[Scheduler %s] Running every %v\n", s.Name, s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	if s.RunOnStart {
		s.submitAll(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.submitAll(ctx)
		case <-ctx.Done():
			log.Printf("[Scheduler %s] Shutting down.\n", s.Name)
			return
		}
	}
}

func (s *JobScheduler) submitAll(ctx context.Context) {
	log.Printf("[Scheduler %s] Submitting %d jobs.\n", s.Name, len(s.Jobs))
	for _, job := range s.Jobs {
		if err := s.Pool.SubmitJob(ctx, job); err != nil {
			log.Printf("[Scheduler %s] Could not submit job: %s.\n", s.Name, err)
			return
		}
	}
}
