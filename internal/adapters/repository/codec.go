package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/types"
)

// Documents are one JSON object keyed by the canonical name. Key order is
// fixed so diffs between catalog versions stay readable: name, aliases and
// sources lead, photometry and spectra trail, and everything else sits in
// between alphabetically.

// MarshalDocument renders an entity as an indented, key-ordered document.
func MarshalDocument(e *entity.Entity) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	if err := writeKey(&buf, 1, e.Name(), json.RawMessage(nil)); err != nil {
		return nil, err
	}
	buf.WriteString("{\n")

	fields := make([]field, 0, 24)
	fields = append(fields,
		field{"name", e.Name()},
		field{"aliases", e.Aliases()},
	)
	if e.Sources.Count() > 0 {
		fields = append(fields, field{"sources", e.Sources.List()})
	}
	fields = append(fields, middleFields(e)...)
	if len(e.Measurements.Photometry()) > 0 {
		fields = append(fields, field{"photometry", e.Measurements.Photometry()})
	}
	if len(e.Measurements.Spectra()) > 0 {
		fields = append(fields, field{"spectra", e.Measurements.Spectra()})
	}

	for i, f := range fields {
		raw, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("repository: encode %q: %w", f.key, err)
		}
		if err := writeKey(&buf, 2, f.key, raw); err != nil {
			return nil, err
		}
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("\t}\n}\n")

	// Re-indent through the standard library so nested values share the
	// document's tab style.
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "\t"); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

type field struct {
	key   string
	value any
}

// middleFields collects quantities, metadata and error notes and sorts them
// into one alphabetical block.
func middleFields(e *entity.Entity) []field {
	fields := make([]field, 0, 20)
	for _, k := range e.Quantities.Kinds() {
		fields = append(fields, field{string(k), e.Quantities.Get(k)})
	}
	for key, val := range metaValues(e.Meta) {
		if val != "" {
			fields = append(fields, field{string(key), val})
		}
	}
	if notes := e.Notes(); len(notes) > 0 {
		fields = append(fields, field{"errors", notes})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].key < fields[j].key })
	return fields
}

// metaValues flattens the Meta struct into its document keys.
func metaValues(m model.Meta) map[types.MetaKey]string {
	return map[types.MetaKey]string{
		types.MetaRA:            m.RA,
		types.MetaDec:           m.Dec,
		types.MetaGalRA:         m.GalRA,
		types.MetaGalDec:        m.GalDec,
		types.MetaDiscoverYear:  m.DiscoverYear,
		types.MetaDiscoverMonth: m.DiscoverMonth,
		types.MetaDiscoverDay:   m.DiscoverDay,
		types.MetaMaxYear:       m.MaxYear,
		types.MetaMaxMonth:      m.MaxMonth,
		types.MetaMaxDay:        m.MaxDay,
		types.MetaMaxAppMag:     m.MaxAppMag,
		types.MetaMaxAbsMag:     m.MaxAbsMag,
		types.MetaDiscoverer:    m.Discoverer,
	}
}

// writeKey writes an indented `"key": value` pair. A nil value writes only
// the key and colon, for opening a nested object by hand.
func writeKey(buf *bytes.Buffer, depth int, key string, raw json.RawMessage) error {
	quoted, err := json.Marshal(key)
	if err != nil {
		return err
	}
	for i := 0; i < depth; i++ {
		buf.WriteByte('\t')
	}
	buf.Write(quoted)
	buf.WriteString(": ")
	buf.Write(raw)
	return nil
}

// document mirrors the decodable parts of a serialized entity.
type document struct {
	Name       string                  `json:"name"`
	Aliases    []string                `json:"aliases"`
	Sources    []model.Citation        `json:"sources"`
	Photometry []model.PhotometryPoint `json:"photometry"`
	Spectra    []model.SpectrumRecord  `json:"spectra"`
	Errors     []model.ErrorNote       `json:"errors"`
}

// UnmarshalDocument rebuilds an entity from a serialized document.
func UnmarshalDocument(data []byte) (*entity.Entity, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if len(outer) != 1 {
		return nil, fmt.Errorf("%w: want a single top-level entity, got %d", ErrBadDocument, len(outer))
	}

	var body json.RawMessage
	for _, v := range outer {
		body = v
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: document has no name", ErrBadDocument)
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(body, &keyed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	quantities := make(map[types.QuantityKind][]model.QuantityRecord)
	for _, k := range types.All() {
		raw, ok := keyed[string(k)]
		if !ok {
			continue
		}
		var recs []model.QuantityRecord
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, fmt.Errorf("%w: decode %q: %v", ErrBadDocument, k, err)
		}
		quantities[k] = recs
	}

	meta, err := decodeMeta(keyed)
	if err != nil {
		return nil, err
	}

	return entity.Restore(doc.Name, doc.Aliases, doc.Sources, quantities,
		doc.Photometry, doc.Spectra, doc.Errors, meta), nil
}

// decodeMeta pulls the scalar metadata keys out of a decoded document body.
func decodeMeta(keyed map[string]json.RawMessage) (model.Meta, error) {
	var m model.Meta
	targets := map[types.MetaKey]*string{
		types.MetaRA:            &m.RA,
		types.MetaDec:           &m.Dec,
		types.MetaGalRA:         &m.GalRA,
		types.MetaGalDec:        &m.GalDec,
		types.MetaDiscoverYear:  &m.DiscoverYear,
		types.MetaDiscoverMonth: &m.DiscoverMonth,
		types.MetaDiscoverDay:   &m.DiscoverDay,
		types.MetaMaxYear:       &m.MaxYear,
		types.MetaMaxMonth:      &m.MaxMonth,
		types.MetaMaxDay:        &m.MaxDay,
		types.MetaMaxAppMag:     &m.MaxAppMag,
		types.MetaMaxAbsMag:     &m.MaxAbsMag,
		types.MetaDiscoverer:    &m.Discoverer,
	}
	for key, dst := range targets {
		raw, ok := keyed[string(key)]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return model.Meta{}, fmt.Errorf("%w: decode %q: %v", ErrBadDocument, key, err)
		}
	}
	return m, nil
}
