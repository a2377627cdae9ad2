// Package measure stores an entity's raw measurements: photometric points
// and spectra. Photometry is deduplicated on insert with decimal-exact value
// comparison, so re-imports of the same table never inflate a light curve.
package measure

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/numeric"
	"github.com/okian/novacat/pkg/metrics"
)

// Store accumulates measurements for one entity. It is not safe for
// concurrent use; the ingest loop is single-threaded.
type Store struct {
	photometry []model.PhotometryPoint
	spectra    []model.SpectrumRecord
}

// NewStore returns an empty measurement store.
func NewStore() *Store {
	return &Store{}
}

// AddPhotometry validates and inserts one photometric point. It reports
// whether the point was inserted; a decimal-equal duplicate of an existing
// point is silently dropped. Two points are duplicates when they agree on
// time unit, band, time, magnitude, and on the error value or its absence.
func (s *Store) AddPhotometry(ctx context.Context, p model.PhotometryPoint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(p.Source) == "" {
		return false, ErrNoSource
	}
	p.Time = strings.TrimSpace(p.Time)
	p.Magnitude = strings.TrimSpace(p.Magnitude)
	p.Error = strings.TrimSpace(p.Error)
	if p.TimeUnit == "" {
		p.TimeUnit = "MJD"
	}
	if !numeric.IsNumber(p.Time) {
		return false, fmt.Errorf("%w: photometry time %q is not numeric", ErrMalformed, p.Time)
	}
	if !numeric.IsNumber(p.Magnitude) {
		return false, fmt.Errorf("%w: photometry magnitude %q is not numeric", ErrMalformed, p.Magnitude)
	}
	if p.Error != "" && !numeric.ValidError(p.Error) {
		return false, fmt.Errorf("%w: photometry error %q is not a valid uncertainty", ErrMalformed, p.Error)
	}

	for _, have := range s.photometry {
		if !samePoint(have, p) {
			continue
		}
		metrics.RecordDuplicate()
		return false, nil
	}
	s.photometry = append(s.photometry, p)
	return true, nil
}

// samePoint is the photometry identity test. Values compare as exact
// decimals, so "57000.0" and "57000" collide.
func samePoint(a, b model.PhotometryPoint) bool {
	if a.TimeUnit != b.TimeUnit || a.Band != b.Band {
		return false
	}
	if !numeric.Equal(a.Time, b.Time) || !numeric.Equal(a.Magnitude, b.Magnitude) {
		return false
	}
	if a.Error == "" && b.Error == "" {
		return true
	}
	return a.Error != "" && b.Error != "" && numeric.Equal(a.Error, b.Error)
}

// AddSpectrum validates and inserts one spectrum. Wavelength and flux units
// are mandatory. A third data column is accepted only when an error unit is
// declared and every value in it is a valid uncertainty.
func (s *Store) AddSpectrum(ctx context.Context, sp model.SpectrumRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(sp.Source) == "" {
		return ErrNoSource
	}
	if sp.WaveUnit == "" || sp.FluxUnit == "" {
		return fmt.Errorf("%w: spectrum is missing wavelength or flux unit", ErrMalformed)
	}
	if len(sp.Data) == 0 {
		return fmt.Errorf("%w: spectrum has no data rows", ErrMalformed)
	}
	sp.Time = strings.TrimSpace(sp.Time)
	if sp.Time != "" && !numeric.IsNumber(sp.Time) {
		return fmt.Errorf("%w: spectrum time %q is not numeric", ErrMalformed, sp.Time)
	}
	width := len(sp.Data[0])
	if width < 2 || width > 3 {
		return fmt.Errorf("%w: spectrum rows must have 2 or 3 columns, got %d", ErrMalformed, width)
	}
	if width == 3 && sp.ErrorUnit == "" {
		return fmt.Errorf("%w: spectrum carries an error column without an error unit", ErrMalformed)
	}
	for i, row := range sp.Data {
		if len(row) != width {
			return fmt.Errorf("%w: spectrum row %d has %d columns, want %d", ErrMalformed, i, len(row), width)
		}
		if !numeric.IsNumber(row[0]) || !numeric.IsNumber(row[1]) {
			return fmt.Errorf("%w: spectrum row %d is not numeric", ErrMalformed, i)
		}
		if width == 3 && !numeric.ValidError(row[2]) {
			return fmt.Errorf("%w: spectrum row %d error %q is not a valid uncertainty", ErrMalformed, i, row[2])
		}
	}
	s.spectra = append(s.spectra, sp)
	return nil
}

// Photometry returns the stored points in insertion order. The slice is the
// store's own; callers must not mutate it.
func (s *Store) Photometry() []model.PhotometryPoint {
	return s.photometry
}

// Spectra returns the stored spectra in insertion order.
func (s *Store) Spectra() []model.SpectrumRecord {
	return s.spectra
}

// Len returns the total number of stored measurements.
func (s *Store) Len() int {
	return len(s.photometry) + len(s.spectra)
}

// Sort puts measurements in their on-disk order: photometry by time, then
// band, then magnitude; spectra by time.
func (s *Store) Sort() {
	sort.SliceStable(s.photometry, func(i, j int) bool {
		a, b := s.photometry[i], s.photometry[j]
		if !numeric.Equal(a.Time, b.Time) {
			return numeric.Less(a.Time, b.Time)
		}
		if a.Band != b.Band {
			return a.Band < b.Band
		}
		return numeric.Less(a.Magnitude, b.Magnitude)
	})
	sort.SliceStable(s.spectra, func(i, j int) bool {
		ti, errI := strconv.ParseFloat(s.spectra[i].Time, 64)
		tj, errJ := strconv.ParseFloat(s.spectra[j].Time, 64)
		if errI != nil || errJ != nil {
			return errI == nil && errJ != nil
		}
		return ti < tj
	})
}

// Restore loads previously serialized measurements without re-validating
// them. It is used when materializing an entity from disk.
func (s *Store) Restore(photometry []model.PhotometryPoint, spectra []model.SpectrumRecord) {
	s.photometry = append(s.photometry[:0], photometry...)
	s.spectra = append(s.spectra[:0], spectra...)
}
