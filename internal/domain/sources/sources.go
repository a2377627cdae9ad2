// Package sources tracks the citation registry owned by one entity.
//
// Citations are deduplicated by identity (reference name or bibcode) and
// handed out as 1-based string aliases. Aliases are only meaningful within
// the owning entity; merges must remap them through the destination
// registry rather than copy them verbatim.
package sources

import (
	"context"
	"strconv"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/pkg/metrics"
)

// adsURLPrefix builds a reference URL from a bare bibcode.
const adsURLPrefix = "http://adsabs.harvard.edu/abs/"

// Registry assigns and deduplicates citations for one entity.
type Registry struct {
	citations []model.Citation
	byName    map[string]int
	byBibcode map[string]int
}

// NewRegistry creates an empty citation registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]int),
		byBibcode: make(map[string]int),
	}
}

// Get returns the citation alias for the given descriptor, creating a new
// citation when the identity has not been seen before.
func (r *Registry) Get(_ context.Context, d model.SourceDescriptor) (string, error) {
	d, err := canonicalize(d)
	if err != nil {
		return "", err
	}

	if i, ok := r.byName[d.Reference]; ok {
		return r.citations[i].Alias, nil
	}
	if d.Bibcode != "" {
		if i, ok := r.byBibcode[d.Bibcode]; ok {
			return r.citations[i].Alias, nil
		}
	}

	c := model.Citation{
		Name:      d.Reference,
		URL:       d.URL,
		Bibcode:   d.Bibcode,
		Alias:     strconv.Itoa(len(r.citations) + 1),
		Secondary: d.Secondary,
	}
	r.citations = append(r.citations, c)
	r.byName[c.Name] = len(r.citations) - 1
	if c.Bibcode != "" {
		r.byBibcode[c.Bibcode] = len(r.citations) - 1
	}
	metrics.RecordCitationCreated()
	return c.Alias, nil
}

// canonicalize fills in the reference name and URL from the bibcode when
// only a bibcode was given.
func canonicalize(d model.SourceDescriptor) (model.SourceDescriptor, error) {
	if d.Reference == "" {
		if d.Bibcode == "" {
			return d, ErrNoIdentity
		}
		d.Reference = d.Bibcode
		d.URL = adsURLPrefix + d.Bibcode
	}
	return d, nil
}

// Lookup returns the citation registered under the given alias.
func (r *Registry) Lookup(alias string) (model.Citation, bool) {
	for _, c := range r.citations {
		if c.Alias == alias {
			return c, true
		}
	}
	return model.Citation{}, false
}

// List returns the citations in alias order.
func (r *Registry) List() []model.Citation {
	out := make([]model.Citation, len(r.citations))
	copy(out, r.citations)
	return out
}

// Count returns the number of registered citations.
func (r *Registry) Count() int { return len(r.citations) }

// Restore rebuilds a registry from persisted citations, keeping their
// aliases verbatim. Used when loading an entity document from disk.
func Restore(citations []model.Citation) *Registry {
	r := NewRegistry()
	for _, c := range citations {
		r.citations = append(r.citations, c)
		r.byName[c.Name] = len(r.citations) - 1
		if c.Bibcode != "" {
			r.byBibcode[c.Bibcode] = len(r.citations) - 1
		}
	}
	return r
}
