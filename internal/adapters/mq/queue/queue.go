// Package queue is the bounded buffer between record producers and the
// single ingest worker. Many goroutines may enqueue; the worker drains
// sequentially so catalog mutations stay linearizable.
package queue

import (
	"context"
	"sync"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/pkg/metrics"
)

// defaultCapacity bounds memory when producers outpace the worker.
const defaultCapacity = 100_000

// Queue is a bounded, closable record buffer.
type Queue struct {
	ch chan model.RawRecord

	mu     sync.Mutex
	closed bool
}

// New creates a queue with the configured capacity.
func New(opts ...Option) *Queue {
	q := &Queue{ch: make(chan model.RawRecord, defaultCapacity)}
	for _, opt := range opts {
		opt(q)
	}
	metrics.UpdateQueueCapacity(cap(q.ch))
	return q
}

// Enqueue adds a record without blocking. A full queue rejects the record
// with ErrQueueFull.
func (q *Queue) Enqueue(ctx context.Context, rec model.RawRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- rec:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return nil
	default:
		metrics.RecordQueueReject()
		return ErrQueueFull
	}
}

// Dequeue blocks until a record is available, the queue is closed and
// drained, or the context ends. A drained, closed queue returns
// ErrQueueClosed.
func (q *Queue) Dequeue(ctx context.Context) (model.RawRecord, error) {
	select {
	case rec, ok := <-q.ch:
		if !ok {
			return model.RawRecord{}, ErrQueueClosed
		}
		metrics.RecordQueueDequeue()
		q.updateGauges()
		return rec, nil
	case <-ctx.Done():
		return model.RawRecord{}, ctx.Err()
	}
}

// Close stops intake. Records already queued remain dequeueable. Close is
// idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// IsClosed reports whether intake has stopped.
func (q *Queue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued records.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.ch) }

func (q *Queue) updateGauges() {
	n := len(q.ch)
	metrics.UpdateQueueSize(n)
	metrics.UpdateQueueUtilization(float64(n) / float64(cap(q.ch)))
}
