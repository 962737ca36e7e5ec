package delivery

import (
	"context"
	"errors"
	"sync"
)

const (
	dispatchEventQueued  = "delivery.queued"
	dispatchEventDropped = "delivery.dropped"
	dispatchEventFailed  = "delivery.failed"
)

// ErrDeliveryQueueFull indicates the dispatcher queue has no free slot.
var ErrDeliveryQueueFull = errors.New("delivery: queue full")

// ErrDispatcherStopped indicates the dispatcher no longer accepts jobs.
var ErrDispatcherStopped = errors.New("delivery: dispatcher stopped")

// DispatcherDeps enumerates collaborators required to construct the dispatcher.
type DispatcherDeps struct {
	Poster    ResultPoster
	QueueSize int
	Workers   int
	Logger    func(context.Context, string, map[string]any)
}

// Dispatcher fans queued jobs out to a fixed pool of delivery workers over a
// bounded channel. Enqueue never blocks the caller; a full queue is reported
// back so the handler can surface the overload.
type Dispatcher struct {
	poster  ResultPoster
	jobs    chan Job
	workers int
	logger  func(context.Context, string, map[string]any)

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher wires dependencies into a Dispatcher.
func NewDispatcher(deps DispatcherDeps) (*Dispatcher, error) {
	if deps.Poster == nil {
		return nil, errors.New("delivery dispatcher: poster is required")
	}
	if deps.QueueSize <= 0 {
		return nil, errors.New("delivery dispatcher: queue size must be positive")
	}
	if deps.Workers <= 0 {
		return nil, errors.New("delivery dispatcher: worker count must be positive")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Dispatcher{
		poster:  deps.Poster,
		jobs:    make(chan Job, deps.QueueSize),
		workers: deps.Workers,
		logger:  logger,
	}, nil
}

// Start launches the worker pool. Workers run until Shutdown is called and
// ctx bounds each individual delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Enqueue hands a job to the worker pool without blocking.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrDispatcherStopped
	}
	select {
	case d.jobs <- job:
		d.mu.Unlock()
		d.logger(ctx, dispatchEventQueued, map[string]any{
			"jobId":  job.Result.JobID,
			"caller": job.Caller,
		})
		return nil
	default:
		d.mu.Unlock()
		d.logger(ctx, dispatchEventDropped, map[string]any{
			"jobId":  job.Result.JobID,
			"caller": job.Caller,
		})
		return ErrDeliveryQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued work to drain. It
// returns ctx.Err() when the deadline expires before the drain completes.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for job := range d.jobs {
		if err := d.poster.Deliver(ctx, job); err != nil {
			d.logger(ctx, dispatchEventFailed, map[string]any{
				"jobId":  job.Result.JobID,
				"caller": job.Caller,
				"error":  err.Error(),
			})
		}
	}
}
