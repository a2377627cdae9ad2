// Package entity ties one catalog object together: its canonical name and
// alias list, its citation registry, its quantities and measurements, and
// the scalar metadata derived from them.
//
// Finalize computes derived values (velocity from redshift and back,
// luminosity distance, absolute magnitude, discovery and maximum dates) and
// is monotonic: a derivation never overwrites a value that is already
// present, whether imported or derived earlier.
package entity

import (
	"context"
	"strconv"
	"strings"

	"github.com/okian/novacat/internal/domain/measure"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/numeric"
	"github.com/okian/novacat/internal/domain/quantity"
	"github.com/okian/novacat/internal/domain/sources"
	"github.com/okian/novacat/internal/domain/types"
)

// derivedReference is the citation attached to values computed by the
// catalog itself rather than imported from a source.
const derivedReference = "NovaCat"

// Entity is one catalog object. It is not safe for concurrent use.
type Entity struct {
	name    string
	aliases []string

	Sources      *sources.Registry
	Quantities   *quantity.Store
	Measurements *measure.Store

	Meta  model.Meta
	notes []model.ErrorNote

	stub bool
}

// New creates a full entity whose alias list starts with its own name.
func New(name string) *Entity {
	return &Entity{
		name:         name,
		aliases:      []string{name},
		Sources:      sources.NewRegistry(),
		Quantities:   quantity.NewStore(),
		Measurements: measure.NewStore(),
	}
}

// NewStub creates a stub: a name and alias list standing in for an entity
// whose full document lives on disk.
func NewStub(name string, aliases []string) *Entity {
	e := New(name)
	for _, a := range aliases {
		e.AddAlias(a)
	}
	e.stub = true
	return e
}

// Restore rebuilds a full entity from its persisted parts, keeping citation
// aliases and stored records verbatim.
func Restore(name string, aliases []string, citations []model.Citation,
	quantities map[types.QuantityKind][]model.QuantityRecord,
	photometry []model.PhotometryPoint, spectra []model.SpectrumRecord,
	notes []model.ErrorNote, meta model.Meta,
) *Entity {
	e := New(name)
	for _, a := range aliases {
		e.AddAlias(a)
	}
	e.Sources = sources.Restore(citations)
	e.Quantities = quantity.Restore(quantities)
	e.Measurements.Restore(photometry, spectra)
	e.notes = append(e.notes, notes...)
	e.Meta = meta
	return e
}

// Name returns the canonical name.
func (e *Entity) Name() string { return e.name }

// Aliases returns the alias list in first-seen order. The canonical name is
// always the first element.
func (e *Entity) Aliases() []string {
	out := make([]string, len(e.aliases))
	copy(out, e.aliases)
	return out
}

// HasAlias reports whether the entity is known under the given name.
func (e *Entity) HasAlias(a string) bool {
	for _, have := range e.aliases {
		if have == a {
			return true
		}
	}
	return false
}

// AddAlias records another name for the entity. It reports whether the
// alias was new.
func (e *Entity) AddAlias(a string) bool {
	a = strings.TrimSpace(a)
	if a == "" || e.HasAlias(a) {
		return false
	}
	e.aliases = append(e.aliases, a)
	return true
}

// IsStub reports whether the entity holds only its name and aliases.
func (e *Entity) IsStub() bool { return e.stub }

// ToStub drops everything but the name and alias list, marking the entity
// as materialized on disk. Used after a checkpoint to bound memory.
func (e *Entity) ToStub() {
	e.Sources = sources.NewRegistry()
	e.Quantities = quantity.NewStore()
	e.Measurements = measure.NewStore()
	e.Meta = model.Meta{}
	e.notes = nil
	e.stub = true
}

// AddNote records a known data problem.
func (e *Entity) AddNote(n model.ErrorNote) {
	e.notes = append(e.notes, n)
}

// Notes returns the recorded data problems.
func (e *Entity) Notes() []model.ErrorNote {
	out := make([]model.ErrorNote, len(e.notes))
	copy(out, e.notes)
	return out
}

// Finalize computes derived quantities and metadata, then sorts the
// measurements into their on-disk order. Every derivation checks that its
// target is still empty before writing.
func (e *Entity) Finalize(ctx context.Context) error {
	if err := e.deriveKinematics(ctx); err != nil {
		return err
	}
	if err := e.deriveDistance(ctx); err != nil {
		return err
	}
	e.deriveMagnitudes()
	e.deriveDates()
	e.Measurements.Sort()
	return nil
}

// deriveKinematics fills in velocity from redshift or redshift from
// velocity, whichever is missing, via the relativistic Doppler relation.
// The derived value keeps the significant digits of its input.
func (e *Entity) deriveKinematics(ctx context.Context) error {
	hasZ := e.Quantities.Has(types.KindRedshift)
	hasV := e.Quantities.Has(types.KindVelocity)
	if hasZ == hasV {
		return nil
	}

	if hasZ {
		best, _ := e.Quantities.Best(types.KindRedshift)
		z, err := strconv.ParseFloat(best.Value, 64)
		if err != nil {
			return nil
		}
		return e.addDerived(ctx, types.KindVelocity,
			numeric.PrettyNum(VelocityFromRedshift(z), numeric.SigDigits(best.Value)))
	}

	best, _ := e.Quantities.Best(types.KindVelocity)
	v, err := strconv.ParseFloat(best.Value, 64)
	if err != nil || v >= speedOfLight {
		return nil
	}
	return e.addDerived(ctx, types.KindRedshift,
		numeric.PrettyNum(RedshiftFromVelocity(v), numeric.SigDigits(best.Value)))
}

// deriveDistance fills in the luminosity distance (in Mpc) from the best
// redshift under flat Lambda-CDM.
func (e *Entity) deriveDistance(ctx context.Context) error {
	if e.Quantities.Has(types.KindLumDist) || !e.Quantities.Has(types.KindRedshift) {
		return nil
	}
	best, _ := e.Quantities.Best(types.KindRedshift)
	z, err := strconv.ParseFloat(best.Value, 64)
	if err != nil || z <= 0 {
		return nil
	}
	return e.addDerived(ctx, types.KindLumDist,
		numeric.PrettyNum(LuminosityDistanceMpc(z), numeric.SigDigits(best.Value)))
}

// addDerived stores a computed value under the catalog's own secondary
// citation.
func (e *Entity) addDerived(ctx context.Context, kind types.QuantityKind, value string) error {
	alias, err := e.Sources.Get(ctx, model.SourceDescriptor{
		Reference: derivedReference,
		Secondary: true,
	})
	if err != nil {
		return err
	}
	_, err = e.Quantities.Add(ctx, kind, value, "", alias)
	return err
}

// deriveMagnitudes fills in the peak apparent magnitude from photometry and
// the absolute magnitude from the peak and the luminosity distance.
func (e *Entity) deriveMagnitudes() {
	if e.Meta.MaxAppMag == "" {
		if p, ok := e.brightestPoint(); ok {
			e.Meta.MaxAppMag = p.Magnitude
		}
	}
	if e.Meta.MaxAbsMag != "" || e.Meta.MaxAppMag == "" {
		return
	}
	dist, ok := e.Quantities.Best(types.KindLumDist)
	if !ok {
		return
	}
	m, errM := strconv.ParseFloat(e.Meta.MaxAppMag, 64)
	d, errD := strconv.ParseFloat(dist.Value, 64)
	if errM != nil || errD != nil || d <= 0 {
		return
	}
	e.Meta.MaxAbsMag = numeric.PrettyNum(AbsoluteMagnitude(m, d), numeric.SigDigits(e.Meta.MaxAppMag))
}

// deriveDates fills in the discovery date from the earliest photometric
// point and the maximum date from the brightest one. Only MJD times convert
// to calendar dates.
func (e *Entity) deriveDates() {
	if e.Meta.DiscoverYear == "" {
		if p, ok := e.earliestPoint(); ok {
			if mjd, err := strconv.ParseFloat(p.Time, 64); err == nil {
				t := numeric.MJDToTime(mjd)
				e.Meta.DiscoverYear = strconv.Itoa(t.Year())
				e.Meta.DiscoverMonth = strconv.Itoa(int(t.Month()))
				e.Meta.DiscoverDay = strconv.Itoa(t.Day())
			}
		}
	}
	if e.Meta.MaxYear == "" {
		if p, ok := e.brightestPoint(); ok {
			if mjd, err := strconv.ParseFloat(p.Time, 64); err == nil {
				t := numeric.MJDToTime(mjd)
				e.Meta.MaxYear = strconv.Itoa(t.Year())
				e.Meta.MaxMonth = strconv.Itoa(int(t.Month()))
				e.Meta.MaxDay = strconv.Itoa(t.Day())
			}
		}
	}
}

// brightestPoint returns the photometric point with the smallest magnitude,
// skipping upper limits and non-MJD times.
func (e *Entity) brightestPoint() (model.PhotometryPoint, bool) {
	var best model.PhotometryPoint
	found := false
	for _, p := range e.Measurements.Photometry() {
		if p.UpperLimit || p.TimeUnit != "MJD" {
			continue
		}
		if !found || numeric.Less(p.Magnitude, best.Magnitude) {
			best, found = p, true
		}
	}
	return best, found
}

// earliestPoint returns the photometric point with the smallest MJD time,
// including upper limits: a pre-discovery limit still bounds the date.
func (e *Entity) earliestPoint() (model.PhotometryPoint, bool) {
	var first model.PhotometryPoint
	found := false
	for _, p := range e.Measurements.Photometry() {
		if p.TimeUnit != "MJD" {
			continue
		}
		if !found || numeric.Less(p.Time, first.Time) {
			first, found = p, true
		}
	}
	return first, found
}
