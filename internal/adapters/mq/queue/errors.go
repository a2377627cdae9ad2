package queue

import "errors"

var (
	// ErrQueueFull is returned when the queue is at capacity. Producers
	// decide whether to retry, shed, or block.
	ErrQueueFull = errors.New("queue: full")

	// ErrQueueClosed is returned when enqueueing after Close, or when
	// dequeueing from a closed and drained queue.
	ErrQueueClosed = errors.New("queue: closed")
)
