// Package queue buffers snapshot edits between the HTTP boundary and the
// single worker that applies them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/pkg/metrics"
)

const defaultCapacity = 1024

// Edit is the payload flowing through the queue.
type Edit = model.Edit

// Queue provides non-blocking enqueue and channel-based dequeue in FIFO
// order.
type Queue interface {
	// Enqueue adds an edit. It fails with ErrFull when the queue is at
	// capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, e Edit) error

	// Dequeue returns a channel delivering edits in enqueue order. The
	// channel is closed once the queue is closed and drained, or ctx ends.
	Dequeue(ctx context.Context) <-chan Edit

	// Len returns the number of pending edits.
	Len(ctx context.Context) int

	// Close stops accepting edits. Pending edits are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	edits    chan Edit
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.edits = make(chan Edit, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0, q.capacity)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, e Edit) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return err
	}

	select {
	case q.edits <- e:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.edits), q.capacity)
		return nil
	default:
		metrics.RecordQueueEnqueueError("full")
		return ErrFull
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Edit {
	out := make(chan Edit)
	go func() {
		defer close(out)
		for e := range q.edits {
			select {
			case out <- e:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.edits), q.capacity)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.edits)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.edits)
	q.closed = true
	return nil
}
