// Package testrecords fabricates scraper output for load tests and demos:
// entities with conflicting redshift claims, light curves with deliberate
// duplicates, and survey-name twins for the deduplication pass to find.
package testrecords

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/types"
)

// surveys are the fake survey prefixes used for twin names.
var surveys = []string{"PTF", "PS1-", "OGLE-", "ASASSN-"}

// Generator produces one reproducible batch of raw records.
type Generator struct {
	cfg Config
	rnd *rand.Rand
}

// NewGenerator creates a generator for the given config.
func NewGenerator(cfg Config) *Generator {
	if cfg.Entities <= 0 {
		cfg.Entities = DefaultConfig().Entities
	}
	if cfg.PhotometryPoints <= 0 {
		cfg.PhotometryPoints = DefaultConfig().PhotometryPoints
	}
	return &Generator{cfg: cfg, rnd: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate returns the whole batch.
func (g *Generator) Generate() []model.RawRecord {
	var out []model.RawRecord
	for i := 0; i < g.cfg.Entities; i++ {
		out = append(out, g.entityRecords()...)
	}
	return out
}

// entityRecords builds every record for one invented object.
func (g *Generator) entityRecords() []model.RawRecord {
	year := 1985 + g.rnd.Intn(40)
	suffix := strings.ToLower(uuid.NewString()[:4])
	name := fmt.Sprintf("SN%d%s", year, suffix)

	primary := []model.SourceDescriptor{{Reference: fmt.Sprintf("Survey Release %d", g.rnd.Intn(50))}}
	secondary := []model.SourceDescriptor{{Bibcode: fmt.Sprintf("%dApJ...%03d....1X", year, g.rnd.Intn(999))}}

	z := 0.001 + g.rnd.Float64()*0.1
	recs := []model.RawRecord{
		{EntityName: name, Kind: model.RecordQuantity,
			Quantity: &model.QuantityPayload{Kind: types.KindRedshift, Value: fmt.Sprintf("%.3f", z)},
			Sources:  primary},
		// A second claim with an uncertainty, so prefer-better has work.
		{EntityName: name, Kind: model.RecordQuantity,
			Quantity: &model.QuantityPayload{
				Kind:  types.KindRedshift,
				Value: fmt.Sprintf("%.4f", z*(1+0.01*g.rnd.Float64())),
				Error: fmt.Sprintf("%.4f", 0.0001+0.001*g.rnd.Float64()),
			},
			Sources: secondary},
		{EntityName: name, Kind: model.RecordQuantity,
			Quantity: &model.QuantityPayload{Kind: types.KindHost, Value: fmt.Sprintf("NGC %d", 1+g.rnd.Intn(7000))},
			Sources:  primary},
	}

	base := 47000.0 + float64(year-1985)*365.25
	for p := 0; p < g.cfg.PhotometryPoints; p++ {
		point := &model.PhotometryPoint{
			Time:      fmt.Sprintf("%.1f", base+float64(p)*2),
			Band:      "V",
			Magnitude: fmt.Sprintf("%.2f", 19.5-g.rnd.Float64()*3+0.2*float64(p)),
			Error:     "0.05",
		}
		recs = append(recs, model.RawRecord{
			EntityName: name, Kind: model.RecordPhotometry,
			Photometry: point, Sources: primary,
		})
		// Re-report some points verbatim to exercise dedup on insert.
		if g.rnd.Float64() < 0.3 {
			dup := *point
			recs = append(recs, model.RawRecord{
				EntityName: name, Kind: model.RecordPhotometry,
				Photometry: &dup, Sources: secondary,
			})
		}
	}

	if g.rnd.Float64() < g.cfg.DuplicateRate {
		twin := surveys[g.rnd.Intn(len(surveys))] + strings.ToLower(uuid.NewString()[:6])
		recs = append(recs,
			model.RawRecord{EntityName: twin, Kind: model.RecordQuantity,
				Quantity: &model.QuantityPayload{Kind: types.KindRedshift, Value: fmt.Sprintf("%.3f", z)},
				Sources:  primary},
			model.RawRecord{EntityName: twin, Kind: model.RecordAlias, Alias: name},
		)
	}
	return recs
}
