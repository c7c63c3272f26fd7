// Package worker admits queued candidate registrations into the pool:
// validate the payload, insert the profile, drop duplicates.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meritworks/ampgsti/internal/adapters/mq/queue"
	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/pkg/logger"
	"github.com/meritworks/ampgsti/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Base score bounds for an admissible registration.
const (
	minBaseScore = 0.0
	maxBaseScore = 100.0
)

// Registration abstracts what workers read off the queue.
type Registration = model.Registration

// Inserter is the candidate-pool surface workers write to.
type Inserter interface {
	Insert(ctx context.Context, p model.Profile) error
	Count(ctx context.Context) int
}

// Queue defines how workers receive registrations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Registration
}

// Worker processes registrations and admits them into the candidate pool.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining registrations before stopping.
	Shutdown(ctx context.Context) error
}

// AdmissionWorker implements Worker for candidate registrations.
type AdmissionWorker struct {
	queue    Queue
	inserter Inserter
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewAdmissionWorker creates a new worker with configuration options.
func NewAdmissionWorker(queue Queue, inserter Inserter, opts ...Option) *AdmissionWorker {
	w := &AdmissionWorker{
		queue:    queue,
		inserter: inserter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *AdmissionWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	regChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-regChan:
			if !ok {
				// Channel closed, worker should stop.
				return
			}

			if err := w.processRegistration(ctx, r); err != nil {
				w.logger.Error(ctx, "error processing registration", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *AdmissionWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRegistration handles a single registration.
func (w *AdmissionWorker) processRegistration(ctx context.Context, r Registration) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := validate(r); err != nil {
		metrics.RecordRegistrationRejected()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "invalid_registration")
		w.logger.Warn(ctx, "registration rejected",
			logger.String("handle", r.Handle),
			logger.Error(err),
		)
		return nil // invalid payloads are dropped, not retried
	}

	p := model.Profile{
		Handle:      r.Handle,
		Credentials: r.Credentials,
		BaseScore:   r.BaseScore,
		TenureYears: r.TenureYears,
	}

	err := w.inserter.Insert(ctx, p)
	switch {
	case err == nil:
		metrics.RecordRegistrationAccepted()
		metrics.UpdateCandidatesTotal(w.inserter.Count(ctx))
		return nil
	case isDuplicate(err):
		// First registration wins; later ones for the same handle are noise.
		metrics.RecordRegistrationDuplicate()
		w.logger.Debug(ctx, "duplicate registration dropped",
			logger.String("handle", r.Handle),
		)
		return nil
	default:
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "insert_error")
		return fmt.Errorf("admitting %s: %w", r.Handle, err)
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicateHandle)
}

// validate checks a registration payload against the admission rules.
func validate(r Registration) error {
	if r.Handle == "" {
		return fmt.Errorf("empty handle")
	}
	if r.BaseScore < minBaseScore || r.BaseScore > maxBaseScore {
		return fmt.Errorf("base score %.4f outside [%v, %v]", r.BaseScore, minBaseScore, maxBaseScore)
	}
	if r.TenureYears < 0 {
		return fmt.Errorf("negative tenure")
	}
	for _, c := range r.Credentials {
		if !model.ValidCategory(c.Category) {
			return fmt.Errorf("unknown credential category %q", c.Category)
		}
		if c.Label == "" {
			return fmt.Errorf("empty credential label")
		}
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*AdmissionWorker
	queue    Queue
	inserter Inserter

	// Shutdown control. stopOnce guards the shutdown channel so Stop and
	// Shutdown can be called in any combination without a double close.
	shutdown chan struct{}
	stopOnce sync.Once

	// Metrics tracking
	processedCount    atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, inserter Inserter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*AdmissionWorker, workerCount),
		queue:             queue,
		inserter:          inserter,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewAdmissionWorker(
			queue,
			inserter,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater periodically publishes throughput metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker throughput metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		processed := p.processedCount.Swap(0)
		metrics.UpdateWorkerMessagesPerSecond(float64(processed) / timeDiff)
	}
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed message count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount.Add(1)
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.shutdown) })

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new registrations.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.stopOnce.Do(func() { close(p.shutdown) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}

var _ Queue = (*queue.InMemoryQueue)(nil)
