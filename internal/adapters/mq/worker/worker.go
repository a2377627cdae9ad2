// Package worker drains the record queue into the directory. Exactly one
// Ingester runs per catalog: scrapers fan in through the queue, and the
// single consumer keeps every entity mutation and merge linearizable
// without locks in the domain layer.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/novacat/internal/adapters/mq/queue"
	"github.com/okian/novacat/internal/directory"
	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/internal/domain/measure"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/numeric"
	"github.com/okian/novacat/internal/domain/quantity"
	"github.com/okian/novacat/internal/domain/sources"
	"github.com/okian/novacat/pkg/logger"
	"github.com/okian/novacat/pkg/metrics"
)

// errMalformed marks per-record validation failures raised by the worker
// itself; they are dropped like the domain layers' own validation errors.
var errMalformed = errors.New("worker: malformed record")

// Ingester consumes records one at a time and applies them to the
// directory. A malformed record is logged and dropped; an integrity error
// stops the run and is returned from Run.
type Ingester struct {
	name string
	q    *queue.Queue
	dir  *directory.Directory
	log  logger.Logger

	processed int
	dropped   int
}

// New creates an ingester reading from q and writing into dir.
func New(q *queue.Queue, dir *directory.Directory, opts ...Option) *Ingester {
	w := &Ingester{
		name: "ingester",
		q:    q,
		dir:  dir,
		log:  logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the queue until it is closed and empty, the context ends, or
// an integrity error surfaces. It is the only goroutine allowed to mutate
// the directory.
func (w *Ingester) Run(ctx context.Context) error {
	w.log.Info(ctx, "ingester started", logger.String("worker", w.name))
	for {
		rec, err := w.q.Dequeue(ctx)
		if errors.Is(err, queue.ErrQueueClosed) {
			w.log.Info(ctx, "ingester drained",
				logger.Int("processed", w.processed),
				logger.Int("dropped", w.dropped))
			return nil
		}
		if err != nil {
			return err
		}

		started := time.Now()
		err = w.processRecord(ctx, rec)
		metrics.RecordIngestLatency(float64(time.Since(started).Microseconds()) / 1000)

		switch {
		case err == nil:
			w.processed++
			metrics.RecordIngested()
		case isMalformed(err):
			w.dropped++
			metrics.RecordDropped(dropReason(err))
			w.log.Warn(ctx, "dropping malformed record",
				logger.String("entity", rec.EntityName),
				logger.String("kind", string(rec.Kind)),
				logger.Error(err))
		default:
			w.log.Error(ctx, "ingestion stopped", logger.Error(err))
			return err
		}
	}
}

// Processed returns how many records were applied.
func (w *Ingester) Processed() int { return w.processed }

// Dropped returns how many records were discarded as malformed.
func (w *Ingester) Dropped() int { return w.dropped }

// processRecord applies one record to its entity.
func (w *Ingester) processRecord(ctx context.Context, rec model.RawRecord) error {
	if strings.TrimSpace(rec.EntityName) == "" {
		return fmt.Errorf("%w: record has no entity name", errMalformed)
	}
	e, err := w.dir.ResolveOrCreate(ctx, rec.EntityName)
	if err != nil {
		return err
	}

	switch rec.Kind {
	case model.RecordAlias:
		if strings.TrimSpace(rec.Alias) == "" {
			return fmt.Errorf("%w: alias record has no alias", errMalformed)
		}
		w.dir.AddAlias(e, rec.Alias)
		return nil

	case model.RecordQuantity:
		if rec.Quantity == nil {
			return fmt.Errorf("%w: quantity record has no payload", errMalformed)
		}
		source, err := w.citeAll(ctx, e, rec.Sources)
		if err != nil {
			return err
		}
		out, err := e.Quantities.Add(ctx, rec.Quantity.Kind, rec.Quantity.Value, rec.Quantity.Error, source)
		if err != nil {
			return err
		}
		if out == quantity.OutcomeRejected {
			return fmt.Errorf("%w: quantity value %q rejected", errMalformed, rec.Quantity.Value)
		}
		return nil

	case model.RecordPhotometry:
		if rec.Photometry == nil {
			return fmt.Errorf("%w: photometry record has no payload", errMalformed)
		}
		source, err := w.citeAll(ctx, e, rec.Sources)
		if err != nil {
			return err
		}
		p := *rec.Photometry
		p.Source = source
		if p.TimeUnit == "JD" {
			mjd, err := numeric.JDToMJD(p.Time)
			if err != nil {
				return fmt.Errorf("%w: bad julian date %q", errMalformed, p.Time)
			}
			p.TimeUnit, p.Time = "MJD", mjd
		}
		_, err = e.Measurements.AddPhotometry(ctx, p)
		return err

	case model.RecordSpectrum:
		if rec.Spectrum == nil {
			return fmt.Errorf("%w: spectrum record has no payload", errMalformed)
		}
		source, err := w.citeAll(ctx, e, rec.Sources)
		if err != nil {
			return err
		}
		sp := *rec.Spectrum
		sp.Source = source
		return e.Measurements.AddSpectrum(ctx, sp)

	default:
		return fmt.Errorf("%w: unknown record kind %q", errMalformed, rec.Kind)
	}
}

// citeAll registers every source descriptor with the entity and returns the
// comma-joined alias list.
func (w *Ingester) citeAll(ctx context.Context, e *entity.Entity, descs []model.SourceDescriptor) (string, error) {
	if len(descs) == 0 {
		return "", fmt.Errorf("%w: record cites no sources", errMalformed)
	}
	aliases := make([]string, 0, len(descs))
	for _, d := range descs {
		alias, err := e.Sources.Get(ctx, d)
		if err != nil {
			return "", err
		}
		aliases = append(aliases, alias)
	}
	return numeric.UniqCommaJoin(aliases), nil
}

// isMalformed separates per-record validation failures from errors that
// must stop the run.
func isMalformed(err error) bool {
	return errors.Is(err, errMalformed) ||
		errors.Is(err, sources.ErrNoIdentity) ||
		errors.Is(err, quantity.ErrUnknownKind) ||
		errors.Is(err, quantity.ErrNoSource) ||
		errors.Is(err, measure.ErrMalformed) ||
		errors.Is(err, measure.ErrNoSource)
}

// dropReason labels the drop metric.
func dropReason(err error) string {
	switch {
	case errors.Is(err, sources.ErrNoIdentity):
		return "no_source_identity"
	case errors.Is(err, quantity.ErrUnknownKind):
		return "unknown_kind"
	case errors.Is(err, quantity.ErrNoSource), errors.Is(err, measure.ErrNoSource):
		return "no_source"
	case errors.Is(err, measure.ErrMalformed):
		return "malformed_measurement"
	default:
		return "malformed"
	}
}
