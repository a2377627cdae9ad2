// Package directory is the in-memory index of every catalog entity. It
// resolves incoming names to entities, creating them on first sight, and
// merges entities that turn out to be the same object, renumbering citation
// aliases as records move between registries.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/novacat/internal/adapters/repository"
	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/numeric"
	"github.com/okian/novacat/internal/domain/scoring"
	"github.com/okian/novacat/pkg/logger"
	"github.com/okian/novacat/pkg/metrics"
)

// Directory owns the entity map and the alias index. It is driven by a
// single ingest goroutine; it is not safe for concurrent use.
type Directory struct {
	entries map[string]*entity.Entity
	aliases map[string]string

	store  repository.Store
	scorer *scoring.PrefixScorer
	log    logger.Logger
}

// New creates an empty directory.
func New(opts ...Option) *Directory {
	d := &Directory{
		entries: make(map[string]*entity.Entity),
		aliases: make(map[string]string),
		scorer:  scoring.NewPrefixScorer(),
		log:     logger.Named("directory"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeedStubs registers previously persisted entities as stubs so incoming
// names resolve to them instead of spawning duplicates.
func (d *Directory) SeedStubs(stubs []*entity.Entity) {
	for _, s := range stubs {
		d.entries[s.Name()] = s
		for _, a := range s.Aliases() {
			d.indexAlias(a, s.Name())
		}
	}
}

// ResolveOrCreate returns the entity known under the given name, creating a
// fresh one when the name is new. A bare designation like "1987A" resolves
// to "SN1987A" when that entity exists, and the bare form is recorded as an
// alias.
func (d *Directory) ResolveOrCreate(ctx context.Context, rawName string) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := CleanName(rawName)
	if name == "" {
		return nil, fmt.Errorf("directory: empty entity name")
	}

	if e, ok := d.lookup(name); ok {
		d.AddAlias(e, name)
		return e, nil
	}
	if startsWithDigit(name) {
		if e, ok := d.lookup(CleanName("SN" + name)); ok {
			d.AddAlias(e, name)
			return e, nil
		}
	}

	e := entity.New(name)
	d.entries[name] = e
	d.indexAlias(name, name)
	metrics.RecordEntityCreated()
	d.log.Debug(ctx, "entity created", logger.String("name", name))
	return e, nil
}

// Get returns the entity for a canonical name or alias, without creating.
func (d *Directory) Get(name string) (*entity.Entity, bool) {
	return d.lookup(CleanName(name))
}

// AddAlias records another name for an entity and indexes it. The first
// entity to claim an alias keeps it; a later claim by a different entity is
// left for the deduplication pass to resolve.
func (d *Directory) AddAlias(e *entity.Entity, alias string) {
	alias = CleanName(alias)
	if alias == "" {
		return
	}
	e.AddAlias(alias)
	d.indexAlias(alias, e.Name())
}

// Names returns the canonical names in sorted order.
func (d *Directory) Names() []string {
	out := make([]string, 0, len(d.entries))
	for name := range d.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Entities returns every entity, keyed by canonical name.
func (d *Directory) Entities() map[string]*entity.Entity {
	out := make(map[string]*entity.Entity, len(d.entries))
	for name, e := range d.entries {
		out[name] = e
	}
	return out
}

// Counts returns how many entities are fully materialized and how many are
// stubs.
func (d *Directory) Counts() (full, stub int) {
	for _, e := range d.entries {
		if e.IsStub() {
			stub++
		} else {
			full++
		}
	}
	return full, stub
}

// Merge folds two entities into one. The entity with fewer designated
// aliases is copied into the other and removed; on a tie the second one
// named absorbs the first. Merging an entity with itself is a no-op.
// Returns the canonical name of the surviving entity.
func (d *Directory) Merge(ctx context.Context, nameA, nameB string) (string, error) {
	started := time.Now()

	a, ok := d.lookup(CleanName(nameA))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, nameA)
	}
	b, ok := d.lookup(CleanName(nameB))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, nameB)
	}
	if a == b {
		return a.Name(), nil
	}

	var err error
	if a, err = d.materialize(ctx, a); err != nil {
		return "", err
	}
	if b, err = d.materialize(ctx, b); err != nil {
		return "", err
	}

	winner, loser := b, a
	if d.scorer.Score(ctx, a.Aliases()) > d.scorer.Score(ctx, b.Aliases()) {
		winner, loser = a, b
	}

	if err := d.copyInto(ctx, winner, loser); err != nil {
		return "", err
	}

	delete(d.entries, loser.Name())
	for _, alias := range loser.Aliases() {
		d.aliases[CleanName(alias)] = winner.Name()
	}
	if d.store != nil {
		if err := d.store.Delete(ctx, loser.Name()); err != nil {
			return "", err
		}
	}

	metrics.RecordMerge()
	metrics.RecordMergeDuration(float64(time.Since(started).Milliseconds()))
	d.log.Info(ctx, "entities merged",
		logger.String("winner", winner.Name()),
		logger.String("loser", loser.Name()))
	return winner.Name(), nil
}

// DeduplicateAll finds entities sharing an alias and merges them until no
// pair overlaps. Returns the number of merges performed.
func (d *Directory) DeduplicateAll(ctx context.Context) (int, error) {
	names := d.Names()
	merges := 0
	for i := 0; i < len(names); i++ {
		a, ok := d.entries[names[i]]
		if !ok {
			continue
		}
		keys := aliasKeys(a)
		for j := i + 1; j < len(names); j++ {
			b, ok := d.entries[names[j]]
			if !ok || a == b {
				continue
			}
			if !overlaps(keys, b) {
				continue
			}
			winner, err := d.Merge(ctx, a.Name(), b.Name())
			if err != nil {
				return merges, err
			}
			merges++
			// The surviving entity gained aliases; check it against the
			// remaining names too.
			names = append(names, winner)
			a, ok = d.entries[names[i]]
			if !ok {
				break
			}
			keys = aliasKeys(a)
		}
	}
	return merges, nil
}

// materialize replaces a stub with its full document from disk. A stub that
// cannot be read back means the catalog on disk is damaged; the merge must
// not proceed on partial data.
func (d *Directory) materialize(ctx context.Context, e *entity.Entity) (*entity.Entity, error) {
	if !e.IsStub() {
		return e, nil
	}
	if d.store == nil {
		return nil, fmt.Errorf("%w: %s: no store configured", ErrStubLoad, e.Name())
	}
	full, err := d.store.Load(ctx, e.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStubLoad, e.Name(), err)
	}
	// Aliases learned since the checkpoint live only on the stub.
	for _, a := range e.Aliases() {
		full.AddAlias(a)
	}
	d.entries[full.Name()] = full
	return full, nil
}

// copyInto moves every record of src into dst, remapping citation aliases
// through dst's registry so they stay dense and unambiguous.
func (d *Directory) copyInto(ctx context.Context, dst, src *entity.Entity) error {
	for _, kind := range src.Quantities.Kinds() {
		for _, rec := range src.Quantities.Get(kind) {
			source, err := d.remapSource(ctx, dst, src, rec.Source)
			if err != nil {
				return err
			}
			if _, err := dst.Quantities.Add(ctx, kind, rec.Value, rec.Error, source); err != nil {
				return err
			}
		}
	}

	for _, p := range src.Measurements.Photometry() {
		source, err := d.remapSource(ctx, dst, src, p.Source)
		if err != nil {
			return err
		}
		p.Source = source
		if _, err := dst.Measurements.AddPhotometry(ctx, p); err != nil {
			d.log.Warn(ctx, "dropping photometry during merge", logger.Error(err))
		}
	}
	for _, sp := range src.Measurements.Spectra() {
		source, err := d.remapSource(ctx, dst, src, sp.Source)
		if err != nil {
			return err
		}
		sp.Source = source
		if err := dst.Measurements.AddSpectrum(ctx, sp); err != nil {
			d.log.Warn(ctx, "dropping spectrum during merge", logger.Error(err))
		}
	}

	for _, alias := range src.Aliases() {
		dst.AddAlias(alias)
	}
	for _, n := range src.Notes() {
		dst.AddNote(n)
	}
	mergeMeta(&dst.Meta, src.Meta)
	return nil
}

// remapSource translates a comma-joined list of src citation aliases into
// dst aliases, registering the citations in dst as needed. An alias with no
// citation behind it is an integrity violation.
func (d *Directory) remapSource(ctx context.Context, dst, src *entity.Entity, source string) (string, error) {
	var out []string
	for _, alias := range strings.Split(source, ",") {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		c, ok := src.Sources.Lookup(alias)
		if !ok {
			return "", fmt.Errorf("%w: %s cites %q", ErrSourcelessRecord, src.Name(), alias)
		}
		mapped, err := dst.Sources.Get(ctx, model.SourceDescriptor{
			Reference: c.Name,
			URL:       c.URL,
			Bibcode:   c.Bibcode,
			Secondary: c.Secondary,
		})
		if err != nil {
			return "", err
		}
		out = append(out, mapped)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%w: %s has a sourceless record", ErrSourcelessRecord, src.Name())
	}
	return numeric.UniqCommaJoin(out), nil
}

// mergeMeta fills empty fields of dst from src, never overwriting.
func mergeMeta(dst *model.Meta, src model.Meta) {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.RA, src.RA)
	fill(&dst.Dec, src.Dec)
	fill(&dst.GalRA, src.GalRA)
	fill(&dst.GalDec, src.GalDec)
	fill(&dst.DiscoverYear, src.DiscoverYear)
	fill(&dst.DiscoverMonth, src.DiscoverMonth)
	fill(&dst.DiscoverDay, src.DiscoverDay)
	fill(&dst.MaxYear, src.MaxYear)
	fill(&dst.MaxMonth, src.MaxMonth)
	fill(&dst.MaxDay, src.MaxDay)
	fill(&dst.MaxAppMag, src.MaxAppMag)
	fill(&dst.MaxAbsMag, src.MaxAbsMag)
	fill(&dst.Discoverer, src.Discoverer)
}

// lookup resolves a cleaned name through the canonical map, then the alias
// index.
func (d *Directory) lookup(name string) (*entity.Entity, bool) {
	if e, ok := d.entries[name]; ok {
		return e, true
	}
	if canon, ok := d.aliases[name]; ok {
		if e, ok := d.entries[canon]; ok {
			return e, true
		}
	}
	return nil, false
}

// indexAlias records an alias claim. First claim wins; conflicts are left
// to the deduplication pass.
func (d *Directory) indexAlias(alias, canonical string) {
	if _, taken := d.aliases[alias]; !taken {
		d.aliases[alias] = canonical
	}
}

// aliasKeys builds the comparison key set for duplicate detection: every
// cleaned alias, plus the SN-prefixed form of bare designations.
func aliasKeys(e *entity.Entity) map[string]bool {
	keys := make(map[string]bool, len(e.Aliases())*2)
	for _, a := range e.Aliases() {
		c := CleanName(a)
		keys[c] = true
		if startsWithDigit(c) {
			keys[CleanName("SN"+c)] = true
		}
	}
	return keys
}

// overlaps reports whether any of b's comparison keys appear in keys.
func overlaps(keys map[string]bool, b *entity.Entity) bool {
	for k := range aliasKeys(b) {
		if keys[k] {
			return true
		}
	}
	return false
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
