package app

import "github.com/okian/novacat/pkg/logger"

// Option configures a Service.
type Option func(*Service)

// WithDataDir sets the catalog root on disk.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithRepos sets the era folder names.
func WithRepos(repos []string) Option {
	return func(s *Service) {
		if len(repos) > 0 {
			s.repos = repos
		}
	}
}

// WithPrefixes sets the designation prefixes used to pick merge winners.
func WithPrefixes(prefixes []string) Option {
	return func(s *Service) {
		if len(prefixes) > 0 {
			s.prefixes = prefixes
		}
	}
}

// WithQueueCapacity bounds the intake queue.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithCompressAbove sets the document size threshold for gzip storage.
func WithCompressAbove(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.compressAbove = n
		}
	}
}

// WithStatsAddr enables the stats listener on the given address.
func WithStatsAddr(addr string) Option {
	return func(s *Service) { s.statsAddr = addr }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
