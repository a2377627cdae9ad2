package repository

import "github.com/okian/novacat/pkg/logger"

// Option configures a DiskStore.
type Option func(*DiskStore)

// WithRepos sets the repository folder names. Each folder name ends in a
// four-digit year bound; entities are bucketed by discovery year.
func WithRepos(repos []string) Option {
	return func(s *DiskStore) {
		if len(repos) > 0 {
			s.repos = repos
		}
	}
}

// WithCompressAbove sets the document size, in bytes, above which files are
// gzip-compressed on disk.
func WithCompressAbove(n int64) Option {
	return func(s *DiskStore) {
		if n > 0 {
			s.compressAbove = n
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *DiskStore) {
		if l != nil {
			s.log = l
		}
	}
}
