// Package metrics provides Prometheus metrics for the novacat curation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the novacat batch curator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Ingestion metrics
	recordsIngested  prometheus.Counter
	recordsDropped   *prometheus.CounterVec
	recordsDuplicate prometheus.Counter
	ingestLatency    prometheus.Histogram

	// Catalog metrics
	entitiesCreated  prometheus.Counter
	entitiesFull     prometheus.Gauge
	entitiesStub     prometheus.Gauge
	mergesPerformed  prometheus.Counter
	mergeDuration    prometheus.Histogram
	citationsCreated prometheus.Counter

	// Quantity conflict metrics
	quantitiesInserted  prometheus.Counter
	quantitiesDominated prometheus.Counter
	sourcesUnioned      prometheus.Counter

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueRejects     prometheus.Counter

	// Persistence metrics
	journalWrites   prometheus.Counter
	journalDuration prometheus.Histogram

	// Fetch metrics
	fetchRequests  prometheus.Counter
	fetchCacheHits prometheus.Counter
	fetchFailures  prometheus.Counter
	fetchDuration  prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "novacat",
		subsystem:        "catalog",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.recordsIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_ingested_total",
		Help: "Raw records successfully routed into an entity.",
	})
	m.recordsDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_dropped_total",
		Help: "Raw records dropped as malformed, by reason.",
	}, []string{"reason"})
	m.recordsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_duplicate_total",
		Help: "Raw records suppressed as exact duplicates.",
	})
	m.ingestLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ingest_latency_ms",
		Help:    "Latency of routing one raw record, in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.entitiesCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entities_created_total",
		Help: "Entities created on first reference to a new name.",
	})
	m.entitiesFull = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entities_full",
		Help: "Materialized entities currently resident in memory.",
	})
	m.entitiesStub = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entities_stub",
		Help: "Stub entities currently resident in memory.",
	})
	m.mergesPerformed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "merges_total",
		Help: "Entity merges performed during deduplication.",
	})
	m.mergeDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "merge_duration_ms",
		Help:    "Duration of one entity merge, in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.citationsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "citations_created_total",
		Help: "Citations registered across all entities.",
	})

	m.quantitiesInserted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "quantities_inserted_total",
		Help: "Quantity records inserted.",
	})
	m.quantitiesDominated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "quantities_dominated_total",
		Help: "Quantity records removed or rejected by the prefer-better policy.",
	})
	m.sourcesUnioned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "sources_unioned_total",
		Help: "Source citation sets unioned into an existing quantity record.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Raw records currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio between 0 and 1.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Records accepted by the queue.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Records handed to the ingest worker.",
	})
	m.queueRejects = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_rejects_total",
		Help: "Enqueue attempts rejected (full or closed).",
	})

	m.journalWrites = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "journal_writes_total",
		Help: "Entity documents flushed to disk.",
	})
	m.journalDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "journal_duration_ms",
		Help:    "Duration of one journal pass, in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.fetchRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_requests_total",
		Help: "Remote catalog fetches attempted.",
	})
	m.fetchCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_cache_hits_total",
		Help: "Fetches served from the on-disk cache.",
	})
	m.fetchFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_failures_total",
		Help: "Fetches that failed and had no usable cache.",
	})
	m.fetchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "fetch_duration_ms",
		Help:    "Duration of one remote fetch, in milliseconds.",
		Buckets: m.histogramBuckets,
	})
}

// Handler returns an HTTP handler exposing the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

func RecordIngested() { globalManager.recordsIngested.Inc() }
func RecordDropped(reason string) { globalManager.recordsDropped.WithLabelValues(reason).Inc() }
func RecordDuplicate() { globalManager.recordsDuplicate.Inc() }
func RecordIngestLatency(ms float64) {
	globalManager.ingestLatency.Observe(ms)
}

func RecordEntityCreated() { globalManager.entitiesCreated.Inc() }
func UpdateEntityCounts(full, stub int) {
	globalManager.entitiesFull.Set(float64(full))
	globalManager.entitiesStub.Set(float64(stub))
}
func RecordMerge() { globalManager.mergesPerformed.Inc() }
func RecordMergeDuration(ms float64) { globalManager.mergeDuration.Observe(ms) }
func RecordCitationCreated() { globalManager.citationsCreated.Inc() }
func RecordQuantityInserted() { globalManager.quantitiesInserted.Inc() }
func RecordQuantityDominated() { globalManager.quantitiesDominated.Inc() }
func RecordSourceUnion() { globalManager.sourcesUnioned.Inc() }

func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(u float64) { globalManager.queueUtilization.Set(u) }
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }
func RecordQueueReject() { globalManager.queueRejects.Inc() }

func RecordJournalWrite() { globalManager.journalWrites.Inc() }
func RecordJournalDuration(ms float64) { globalManager.journalDuration.Observe(ms) }

func RecordFetchRequest() { globalManager.fetchRequests.Inc() }
func RecordFetchCacheHit() { globalManager.fetchCacheHits.Inc() }
func RecordFetchFailure() { globalManager.fetchFailures.Inc() }
func RecordFetchDuration(ms float64) { globalManager.fetchDuration.Observe(ms) }
