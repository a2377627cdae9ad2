package directory

import (
	"github.com/okian/novacat/internal/adapters/repository"
	"github.com/okian/novacat/internal/domain/scoring"
	"github.com/okian/novacat/pkg/logger"
)

// Option configures a Directory.
type Option func(*Directory)

// WithStore sets the persistence layer used to materialize stubs and drop
// merged-away documents.
func WithStore(s repository.Store) Option {
	return func(d *Directory) {
		if s != nil {
			d.store = s
		}
	}
}

// WithScorer sets the scorer deciding merge direction.
func WithScorer(s *scoring.PrefixScorer) Option {
	return func(d *Directory) {
		if s != nil {
			d.scorer = s
		}
	}
}

// WithLogger sets the directory's logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}
