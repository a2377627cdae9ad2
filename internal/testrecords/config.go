package testrecords

// Config shapes a synthetic record batch.
type Config struct {
	// Entities is the number of distinct objects to invent.
	Entities int

	// DuplicateRate is the fraction of entities that also report under a
	// survey name, giving the deduplication pass something to merge.
	DuplicateRate float64

	// PhotometryPoints is the number of points per entity light curve.
	PhotometryPoints int

	// Seed makes batches reproducible.
	Seed int64
}

// DefaultConfig returns a small, reproducible batch.
func DefaultConfig() Config {
	return Config{
		Entities:         100,
		DuplicateRate:    0.2,
		PhotometryPoints: 5,
		Seed:             1,
	}
}
