// Package scoring ranks entities for merge direction. An entity whose
// aliases carry more designated prefixes is the better-established record
// and absorbs the other.
package scoring

import (
	"context"
	"strings"
)

// defaultPrefixes mark formally designated names.
var defaultPrefixes = []string{"SN", "AT"}

// PrefixScorer counts how many of an entity's aliases start with one of the
// configured prefixes.
type PrefixScorer struct {
	prefixes []string
}

// Option configures a PrefixScorer.
type Option func(*PrefixScorer)

// WithPrefixes overrides the designation prefixes.
func WithPrefixes(prefixes []string) Option {
	return func(s *PrefixScorer) {
		if len(prefixes) > 0 {
			s.prefixes = prefixes
		}
	}
}

// NewPrefixScorer creates a scorer with the given options.
func NewPrefixScorer(opts ...Option) *PrefixScorer {
	s := &PrefixScorer{prefixes: defaultPrefixes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the number of aliases carrying a designation prefix. Each
// alias counts at most once even when it matches several prefixes.
func (s *PrefixScorer) Score(_ context.Context, aliases []string) int {
	score := 0
	for _, a := range aliases {
		for _, p := range s.prefixes {
			if strings.HasPrefix(a, p) {
				score++
				break
			}
		}
	}
	return score
}
