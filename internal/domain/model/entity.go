package model

// Citation is one literature or survey reference scoped to a single entity.
// Alias is the 1-based citation index, rendered as a string so quantity
// source fields can comma-join them verbatim.
type Citation struct {
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Bibcode   string `json:"bibcode,omitempty"`
	Alias     string `json:"alias"`
	Secondary bool   `json:"secondary,omitempty"`
}

// QuantityRecord is one value for one quantity kind. Source is a
// comma-joined list of citation aliases and is never empty.
type QuantityRecord struct {
	Value  string `json:"value"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source"`
}

// PhotometryPoint is one photometric measurement. Identity for
// deduplication is (TimeUnit, Band, Time, Magnitude, error-or-absence).
type PhotometryPoint struct {
	TimeUnit   string `json:"timeunit"`
	Time       string `json:"time"`
	Band       string `json:"band"`
	Magnitude  string `json:"abmag"`
	Error      string `json:"aberr,omitempty"`
	Instrument string `json:"instrument,omitempty"`
	Source     string `json:"source,omitempty"`
	UpperLimit bool   `json:"upperlimit,omitempty"`
}

// SpectrumRecord is one spectrum. Data rows are (wavelength, flux) or
// (wavelength, flux, error) tuples, kept as strings to preserve the source
// precision exactly.
type SpectrumRecord struct {
	Deredshifted bool       `json:"deredshifted,omitempty"`
	Dereddened   bool       `json:"dereddened,omitempty"`
	Instrument   string     `json:"instrument,omitempty"`
	TimeUnit     string     `json:"timeunit,omitempty"`
	Time         string     `json:"time,omitempty"`
	WaveUnit     string     `json:"waveunit"`
	FluxUnit     string     `json:"fluxunit"`
	ErrorUnit    string     `json:"errorunit,omitempty"`
	Data         [][]string `json:"data"`
	Source       string     `json:"source,omitempty"`
}

// ErrorNote records a known data problem attached to an entity, kept so
// downstream consumers can exclude the affected values.
type ErrorNote struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value"`
	Extra string `json:"extra,omitempty"`
}

// Meta holds the scalar per-entity metadata written to the middle section
// of the document. All values are strings in the on-disk form.
type Meta struct {
	RA            string
	Dec           string
	GalRA         string
	GalDec        string
	DiscoverYear  string
	DiscoverMonth string
	DiscoverDay   string
	MaxYear       string
	MaxMonth      string
	MaxDay        string
	MaxAppMag     string
	MaxAbsMag     string
	Discoverer    string
}
