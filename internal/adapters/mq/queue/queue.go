// Package queue provides the buffered hand-off between the registration
// endpoint and the admission workers. Enqueue never blocks: when the queue
// is full the caller sheds load instead of stalling the HTTP path.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
	defaultBufferSize    = 100000
)

// Registration is the payload type flowing through the queue.
type Registration = model.Registration

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a registration to the queue.
	// Returns false if the queue is full and the registration was dropped.
	Enqueue(ctx context.Context, r Registration) bool

	// Dequeue returns a channel that receives registrations as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Registration

	// Len returns the current number of queued registrations.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new registrations can be enqueued and the dequeue
	// channel is closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	registrations chan Registration
	capacity      int
	bufferSize    int
	mu            sync.RWMutex
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.registrations = make(chan Registration, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a registration to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Registration) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.registrations) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.registrations <- r:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.registrations)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives registrations as they become
// available. When ctx is canceled mid-handoff, the in-flight registration is
// re-enqueued so another consumer can pick it up; if the queue is already
// closed or full at that point the registration is lost.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Registration {
	// Wrap the channel to track dequeue metrics.
	out := make(chan Registration)
	go func() {
		defer close(out)
		for r := range q.registrations {
			select {
			case out <- r:
				metrics.RecordQueueDequeue()
				currentSize := len(q.registrations)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				q.requeue(r)
				return
			}
		}
	}()
	return out
}

// requeue returns a registration received but never handed off. Best effort:
// the mutex keeps the send from racing Close, and a full buffer drops it.
func (q *InMemoryQueue) requeue(r Registration) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}
	select {
	case q.registrations <- r:
	default:
	}
}

// Len returns the current number of queued registrations.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.registrations)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.registrations)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
