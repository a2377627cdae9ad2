// Package app assembles the catalog service: the disk store, the entity
// directory, the intake queue, the single ingest worker, and an optional
// stats listener.
//
// The lifecycle is Start, any number of Submit calls from any goroutine,
// CloseIntake, Wait, then Checkpoint and Dedupe from the controlling
// goroutine. Ingestion owns the directory while it runs; Checkpoint and
// Dedupe must not overlap with it.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/novacat/internal/adapters/mq/queue"
	"github.com/okian/novacat/internal/adapters/mq/worker"
	"github.com/okian/novacat/internal/adapters/repository"
	"github.com/okian/novacat/internal/directory"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/scoring"
	"github.com/okian/novacat/pkg/logger"
	"github.com/okian/novacat/pkg/metrics"
)

// Service is the running catalog.
type Service struct {
	dataDir       string
	repos         []string
	prefixes      []string
	queueCapacity int
	compressAbove int64
	statsAddr     string
	log           logger.Logger

	store *repository.DiskStore
	dir   *directory.Directory
	q     *queue.Queue
	ing   *worker.Ingester

	stats  *http.Server
	runErr chan error
}

// New builds a service. The disk store and its folder tree are created
// immediately; ingestion starts with Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		dataDir:       "data",
		queueCapacity: 100_000,
		log:           logger.Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}

	storeOpts := []repository.Option{}
	if len(s.repos) > 0 {
		storeOpts = append(storeOpts, repository.WithRepos(s.repos))
	}
	if s.compressAbove > 0 {
		storeOpts = append(storeOpts, repository.WithCompressAbove(s.compressAbove))
	}
	store, err := repository.NewDiskStore(s.dataDir, storeOpts...)
	if err != nil {
		return nil, err
	}
	s.store = store

	scorerOpts := []scoring.Option{}
	if len(s.prefixes) > 0 {
		scorerOpts = append(scorerOpts, scoring.WithPrefixes(s.prefixes))
	}
	s.dir = directory.New(
		directory.WithStore(store),
		directory.WithScorer(scoring.NewPrefixScorer(scorerOpts...)),
	)
	s.q = queue.New(queue.WithCapacity(s.queueCapacity))
	s.ing = worker.New(s.q, s.dir)
	s.runErr = make(chan error, 1)
	return s, nil
}

// Start seeds the directory with stubs for everything already on disk and
// launches the ingest worker.
func (s *Service) Start(ctx context.Context) error {
	stubs, err := s.store.LoadStubs(ctx)
	if err != nil {
		return err
	}
	s.dir.SeedStubs(stubs)
	s.log.Info(ctx, "catalog loaded", logger.Int("stubs", len(stubs)))

	go func() {
		s.runErr <- s.ing.Run(context.WithoutCancel(ctx))
	}()

	if s.statsAddr != "" {
		s.startStats(ctx)
	}
	return nil
}

// Submit queues one record for ingestion. Safe for concurrent use.
func (s *Service) Submit(ctx context.Context, rec model.RawRecord) error {
	return s.q.Enqueue(ctx, rec)
}

// CloseIntake stops accepting records. Queued records still drain.
func (s *Service) CloseIntake() { s.q.Close() }

// Wait blocks until the worker has drained the queue. It returns the fatal
// ingestion error, if any.
func (s *Service) Wait() error {
	return <-s.runErr
}

// Checkpoint finalizes every materialized entity, writes it to disk, and
// reduces it to a stub. Must not run while ingestion is active.
func (s *Service) Checkpoint(ctx context.Context) error {
	started := time.Now()
	saved := 0
	for _, e := range s.dir.Entities() {
		if e.IsStub() {
			continue
		}
		if err := e.Finalize(ctx); err != nil {
			return err
		}
		if err := s.store.Save(ctx, e); err != nil {
			return err
		}
		e.ToStub()
		saved++
		metrics.RecordJournalWrite()
	}
	metrics.RecordJournalDuration(float64(time.Since(started).Milliseconds()))

	full, stub := s.dir.Counts()
	metrics.UpdateEntityCounts(full, stub)
	s.log.Info(ctx, "checkpoint written",
		logger.Int("saved", saved),
		logger.Int("entities", full+stub))
	return nil
}

// Dedupe merges entities that share aliases. Must not run while ingestion
// is active. Returns the number of merges.
func (s *Service) Dedupe(ctx context.Context) (int, error) {
	return s.dir.DeduplicateAll(ctx)
}

// Snapshot is a point-in-time view of the catalog for the stats command.
type Snapshot struct {
	Entities  int `json:"entities"`
	Stubs     int `json:"stubs"`
	QueueLen  int `json:"queue_len"`
	Processed int `json:"processed"`
	Dropped   int `json:"dropped"`
}

// Stats returns current counters.
func (s *Service) Stats() Snapshot {
	full, stub := s.dir.Counts()
	return Snapshot{
		Entities:  full + stub,
		Stubs:     stub,
		QueueLen:  s.q.Len(),
		Processed: s.ing.Processed(),
		Dropped:   s.ing.Dropped(),
	}
}

// Directory exposes the entity index for read-only inspection.
func (s *Service) Directory() *directory.Directory { return s.dir }

// Stop closes intake if still open, waits for the worker, and shuts down
// the stats listener. The worker's fatal error, if any, is returned.
func (s *Service) Stop(ctx context.Context) error {
	var runErr error
	if !s.q.IsClosed() {
		s.q.Close()
		runErr = s.Wait()
	}
	if s.stats != nil {
		if err := s.stats.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn(ctx, "stats listener shutdown", logger.Error(err))
		}
	}
	return runErr
}

// startStats serves liveness and Prometheus metrics.
func (s *Service) startStats(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	s.stats = &http.Server{
		Addr:              s.statsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.stats.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(ctx, "stats listener failed", logger.Error(err))
		}
	}()
	s.log.Info(ctx, "stats listener started", logger.String("addr", s.statsAddr))
}
