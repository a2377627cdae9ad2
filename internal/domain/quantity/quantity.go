// Package quantity holds the per-entity quantity store and its
// "prefer-better" conflict policy: for kinds flagged prefer-better, an
// insertion drops every existing record it strictly dominates and is itself
// dropped when strictly dominated, where stated errors outrank significant
// digits and smaller errors outrank larger ones. Ties keep both records.
package quantity

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/numeric"
	"github.com/okian/novacat/internal/domain/types"
	"github.com/okian/novacat/pkg/metrics"
)

// Outcome describes what Add did with a candidate.
type Outcome int

const (
	// OutcomeInserted means a new record was stored.
	OutcomeInserted Outcome = iota
	// OutcomeSourceUnioned means an identical value already existed and the
	// candidate's sources were merged into it.
	OutcomeSourceUnioned
	// OutcomeDominated means the candidate lost to a more precise record.
	OutcomeDominated
	// OutcomeRejected means the candidate was malformed and dropped.
	OutcomeRejected
)

// Store holds the quantity records of one entity, keyed by kind.
type Store struct {
	records map[types.QuantityKind][]model.QuantityRecord
}

// NewStore creates an empty quantity store.
func NewStore() *Store {
	return &Store{records: make(map[types.QuantityKind][]model.QuantityRecord)}
}

// Add inserts one candidate value for the given kind, applying value
// normalization, duplicate source union, and the prefer-better policy.
//
// Malformed candidates (empty value, non-numeric value for numeric kinds,
// unparsable or negative error) report OutcomeRejected without an error so
// ingestion of dirty scraped input can continue. A missing source is an
// integrity violation and returns ErrNoSource.
func (s *Store) Add(_ context.Context, kind types.QuantityKind, value, errVal, source string) (Outcome, error) {
	if !types.Known(kind) {
		return OutcomeRejected, ErrUnknownKind
	}
	if strings.TrimSpace(source) == "" {
		return OutcomeRejected, ErrNoSource
	}

	value = strings.TrimSpace(value)
	errVal = strings.TrimSpace(errVal)
	if value == "" || value == "-" || value == "--" {
		return OutcomeRejected, nil
	}
	if errVal != "" && !numeric.ValidError(errVal) {
		return OutcomeRejected, nil
	}
	if types.Numeric(kind) && !numeric.IsNumber(value) {
		return OutcomeRejected, nil
	}

	value = normalizeValue(kind, value)
	if numeric.IsNumber(value) {
		value = numeric.Norm(value)
	}
	if errVal != "" {
		errVal = numeric.Norm(errVal)
	}

	// An identical value only unions the new source into the existing record.
	for i, r := range s.records[kind] {
		if r.Value != value {
			continue
		}
		joined := numeric.UniqCommaJoin([]string{r.Source, source})
		if joined != r.Source {
			s.records[kind][i].Source = joined
			metrics.RecordSourceUnion()
		}
		if errVal != "" && r.Error == "" {
			s.records[kind][i].Error = errVal
		}
		return OutcomeSourceUnioned, nil
	}

	candidate := model.QuantityRecord{Value: value, Error: errVal, Source: source}
	if !types.PreferBetter(kind) || len(s.records[kind]) == 0 {
		s.records[kind] = append(s.records[kind], candidate)
		metrics.RecordQuantityInserted()
		return OutcomeInserted, nil
	}

	return s.addPreferBetter(kind, candidate), nil
}

// addPreferBetter applies the domination rules between the candidate and
// every existing record of the same kind.
func (s *Store) addPreferBetter(kind types.QuantityKind, candidate model.QuantityRecord) Outcome {
	newSig := numeric.SigDigits(candidate.Value)
	kept := make([]model.QuantityRecord, 0, len(s.records[kind])+1)
	dominatesAny := false
	dominated := false

	for _, r := range s.records[kind] {
		switch {
		case r.Error != "" && candidate.Error != "":
			if numeric.Less(candidate.Error, r.Error) {
				// Candidate is strictly more confident; drop r.
				dominatesAny = true
				metrics.RecordQuantityDominated()
				continue
			}
			if numeric.Less(r.Error, candidate.Error) {
				dominated = true
				r.Source = numeric.UniqCommaJoin([]string{r.Source, candidate.Source})
			}
			kept = append(kept, r)
		case r.Error == "" && candidate.Error != "":
			// A stated error implies higher confidence than none.
			dominatesAny = true
			metrics.RecordQuantityDominated()
		case r.Error != "" && candidate.Error == "":
			dominated = true
			kept = append(kept, r)
		default:
			oldSig := numeric.SigDigits(r.Value)
			if newSig > oldSig {
				dominatesAny = true
				metrics.RecordQuantityDominated()
				continue
			}
			if oldSig > newSig {
				dominated = true
			}
			kept = append(kept, r)
		}
	}

	if dominatesAny || !dominated {
		kept = append(kept, candidate)
		s.records[kind] = kept
		metrics.RecordQuantityInserted()
		return OutcomeInserted
	}
	s.records[kind] = kept
	metrics.RecordQuantityDominated()
	return OutcomeDominated
}

// normalizeValue applies kind-specific cleanup before storage.
func normalizeValue(kind types.QuantityKind, v string) string {
	switch kind {
	case types.KindHost:
		v = strings.ReplaceAll(v, "NGC", "NGC ")
		v = strings.ReplaceAll(v, "UGC", "UGC ")
		v = strings.ReplaceAll(v, "IC", "IC ")
		return strings.Join(strings.Fields(v), " ")
	case types.KindClaimedType:
		return types.CanonicalType(v)
	default:
		return v
	}
}

// Get returns the records of one kind in insertion order.
func (s *Store) Get(kind types.QuantityKind) []model.QuantityRecord {
	recs := s.records[kind]
	out := make([]model.QuantityRecord, len(recs))
	copy(out, recs)
	return out
}

// Has reports whether any record of the kind is stored.
func (s *Store) Has(kind types.QuantityKind) bool { return len(s.records[kind]) > 0 }

// Best returns the record of the kind with the most significant digits,
// preferring earlier records on ties.
func (s *Store) Best(kind types.QuantityKind) (model.QuantityRecord, bool) {
	recs := s.records[kind]
	if len(recs) == 0 {
		return model.QuantityRecord{}, false
	}
	best := recs[0]
	bestSig := numeric.SigDigits(best.Value)
	for _, r := range recs[1:] {
		if sig := numeric.SigDigits(r.Value); sig > bestSig {
			best, bestSig = r, sig
		}
	}
	return best, true
}

// Kinds returns the kinds with stored records in alphabetical order, which
// is also their document order.
func (s *Store) Kinds() []types.QuantityKind {
	out := make([]types.QuantityKind, 0, len(s.records))
	for k := range s.records {
		if len(s.records[k]) > 0 {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the total number of stored records across kinds.
func (s *Store) Len() int {
	n := 0
	for _, recs := range s.records {
		n += len(recs)
	}
	return n
}

// Restore rebuilds a store from persisted records, bypassing normalization
// and conflict resolution. Used when loading an entity document from disk.
func Restore(records map[types.QuantityKind][]model.QuantityRecord) *Store {
	s := NewStore()
	for k, recs := range records {
		s.records[k] = append(s.records[k], recs...)
	}
	return s
}
