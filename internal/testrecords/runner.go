package testrecords

import (
	"context"
	"errors"
	"time"

	"github.com/okian/novacat/internal/adapters/mq/queue"
	"github.com/okian/novacat/internal/domain/model"
)

// Submit is the intake function records are fed into.
type Submit func(ctx context.Context, rec model.RawRecord) error

// Feed pushes records through submit, backing off briefly when the queue is
// full. Returns the number of records accepted.
func Feed(ctx context.Context, records []model.RawRecord, submit Submit) (int, error) {
	sent := 0
	for _, rec := range records {
		for {
			err := submit(ctx, rec)
			if err == nil {
				sent++
				break
			}
			if !errors.Is(err, queue.ErrQueueFull) {
				return sent, err
			}
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(5 * time.Millisecond):
			}
		}
	}
	return sent, nil
}
