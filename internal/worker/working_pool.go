package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

type WorkingPool struct {
	NumWorkers int
	jobChan    chan Job
	done       chan struct{}
	stopOnce   sync.Once

	status    atomic.Value
	completed atomic.Int64
	failed    atomic.Int64
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &WorkingPool{
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
		done:       make(chan struct{}),
	}
	p.status.Store(PoolStatusCreated)
	return p
}

// SubmitJob blocks until the job is queued, ctx is canceled or the pool stops.
// The job channel is never closed, so late submitters get ErrPoolStopped
// instead of a panic.
func (p *WorkingPool) SubmitJob(ctx context.Context, job Job) error {
	select {
	case <-p.done:
		return ErrPoolStopped
	default:
	}

	select {
	case p.jobChan <- job:
		return nil
	case <-p.done:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues the job only if there is room right now. Jobs running
// inside the pool use it to fan out without deadlocking on a full queue.
func (p *WorkingPool) TrySubmit(job Job) error {
	select {
	case <-p.done:
		return ErrPoolStopped
	default:
	}

	select {
	case p.jobChan <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup
	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}
	p.status.Store(PoolStatusActive)

	<-ctx.Done()

	log.Println("[WorkingPool] Shutdown signaled. Rejecting new jobs.")
	p.stop()

	workerWg.Wait()
	if pending := len(p.jobChan); pending > 0 {
		log.Printf("[WorkingPool] Dropped %d queued jobs on shutdown.\n", pending)
	}
	log.Println("[WorkingPool] All workers stopped.")
}

func (p *WorkingPool) stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.status.Store(PoolStatusStopped)
	})
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()
	log.Printf("[WorkingPool-Worker %d] Started and waiting for jobs.\n", id)

	for {
		select {
		case job := <-p.jobChan:
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			log.Printf("[WorkingPool-Worker %d] Context canceled. Exiting.\n", id)
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WorkingPool-Worker %d] FATAL: Panic recovered in job: %v\n", workerID, r)
			p.failed.Add(1)
		}
	}()

	if err = job(ctx); err != nil {
		log.Printf("[WorkingPool-Worker %d] Error executing job: %s.\n", workerID, err)
		p.failed.Add(1)
		return err
	}
	p.completed.Add(1)
	return nil
}

func (p *WorkingPool) Status() PoolStatus {
	return p.status.Load().(PoolStatus)
}

func (p *WorkingPool) GetMetrics() map[string]any {
	return map[string]any{
		"status":         p.Status(),
		"workers":        p.NumWorkers,
		"queued":         len(p.jobChan),
		"jobs_completed": p.completed.Load(),
		"jobs_failed":    p.failed.Load(),
	}
}
