// Package model contains domain models passed between layers.
package model

import "github.com/okian/novacat/internal/domain/types"

// RecordKind discriminates the payload of a RawRecord.
type RecordKind string

// Raw record payload kinds, matching the scraper input contract.
const (
	RecordQuantity   RecordKind = "quantity"
	RecordPhotometry RecordKind = "photometry"
	RecordSpectrum   RecordKind = "spectrum"
	RecordAlias      RecordKind = "alias"
)

// SourceDescriptor identifies the provenance of one raw record. Either
// Reference or Bibcode must be set; a bibcode without a reference name
// becomes the reference name itself.
type SourceDescriptor struct {
	Reference string `json:"reference,omitempty"`
	URL       string `json:"url,omitempty"`
	Bibcode   string `json:"bibcode,omitempty"`
	Secondary bool   `json:"secondary,omitempty"`
}

// RawRecord is the normalized unit of input produced by the per-source
// scrapers. Exactly one payload field matching Kind is populated.
type RawRecord struct {
	EntityName string     `json:"name"`
	Kind       RecordKind `json:"kind"`

	Quantity   *QuantityPayload `json:"quantity,omitempty"`
	Photometry *PhotometryPoint `json:"photometry,omitempty"`
	Spectrum   *SpectrumRecord  `json:"spectrum,omitempty"`
	Alias      string           `json:"alias,omitempty"`

	// Sources cites where this record came from; at least one descriptor
	// is required for quantity, photometry, and spectrum payloads.
	Sources []SourceDescriptor `json:"sources,omitempty"`
}

// QuantityPayload carries one quantity value for ingestion.
type QuantityPayload struct {
	Kind  types.QuantityKind `json:"quantity_kind"`
	Value string             `json:"value"`
	Error string             `json:"error,omitempty"`
}
