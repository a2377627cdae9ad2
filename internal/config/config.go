// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers file and environment overrides on top of the defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the root directory holding the output repository folders.
	DataDir string `koanf:"data_dir"`

	// CacheDir holds cached copies of remote catalog downloads.
	CacheDir string `koanf:"cache_dir"`

	// Repos lists output repository folder names. The trailing four digits
	// of each name set the upper discovery-year bound of the bucket, e.g.
	// "sne-1990-1999" holds entities discovered up to 1999.
	Repos []string `koanf:"repos"`

	// PriorityPrefixes ranks authoritative name prefixes for picking the
	// surviving side of a merge.
	PriorityPrefixes []string `koanf:"priority_prefixes"`

	// QueueSize bounds the in-memory raw-record queue.
	QueueSize int `koanf:"queue_size"`

	// FetchWorkers bounds concurrent remote fetches feeding the queue.
	FetchWorkers int `koanf:"fetch_workers"`

	// FetchTimeoutSec is the per-request timeout for remote fetches.
	FetchTimeoutSec int `koanf:"fetch_timeout_sec"`

	// CompressAboveBytes gzips entity documents larger than this size.
	CompressAboveBytes int64 `koanf:"compress_above_bytes"`

	// StatsAddr, when non-empty, serves /healthz and /metrics during runs.
	StatsAddr string `koanf:"stats_addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		DataDir:  "data",
		CacheDir: "cache",
		Repos: []string{
			"sne-pre-1990",
			"sne-1990-1999",
			"sne-2000-2009",
			"sne-2010-2019",
			"sne-2020-2029",
		},
		PriorityPrefixes:   []string{"SN", "AT"},
		QueueSize:          100_000,
		FetchWorkers:       runtime.NumCPU(),
		FetchTimeoutSec:    120,
		CompressAboveBytes: 90_000_000,
		StatsAddr:          "",
	}
}
