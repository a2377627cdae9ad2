package queue

import "github.com/okian/novacat/internal/domain/model"

// Option configures a Queue.
type Option func(*Queue)

// WithCapacity sets the maximum number of buffered records.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan model.RawRecord, n)
		}
	}
}
