// Package types contains the closed domain vocabulary shared across layers.
package types

// QuantityKind identifies one kind of measured quantity attached to an
// entity. The set is closed: unknown kinds are rejected at ingestion
// instead of dispatched on free-form strings.
type QuantityKind string

// Known quantity kinds. The string values double as JSON document keys.
const (
	KindRedshift    QuantityKind = "redshift"
	KindVelocity    QuantityKind = "hvel"
	KindLumDist     QuantityKind = "lumdist"
	KindEBV         QuantityKind = "ebv"
	KindClaimedType QuantityKind = "claimedtype"
	KindHost        QuantityKind = "host"
)

// allKinds enumerates every known kind for validation.
var allKinds = map[QuantityKind]bool{
	KindRedshift:    true,
	KindVelocity:    true,
	KindLumDist:     true,
	KindEBV:         true,
	KindClaimedType: true,
	KindHost:        true,
}

// preferBetter flags the kinds where only the most precise values are
// retained on conflict.
var preferBetter = map[QuantityKind]bool{
	KindRedshift: true,
	KindVelocity: true,
	KindLumDist:  true,
	KindEBV:      true,
}

// numericKinds must parse as numbers to be accepted at all.
var numericKinds = map[QuantityKind]bool{
	KindRedshift: true,
	KindVelocity: true,
}

// Known returns true when k is part of the closed kind set.
func Known(k QuantityKind) bool { return allKinds[k] }

// All returns every known kind; order is unspecified.
func All() []QuantityKind {
	out := make([]QuantityKind, 0, len(allKinds))
	for k := range allKinds {
		out = append(out, k)
	}
	return out
}

// PreferBetter returns true when conflicting values of k are resolved by
// the best-precision-wins policy.
func PreferBetter(k QuantityKind) bool { return preferBetter[k] }

// Numeric returns true when values of k must be numeric.
func Numeric(k QuantityKind) bool { return numericKinds[k] }

// MetaKey identifies one scalar metadata field on an entity.
type MetaKey string

// Scalar metadata document keys.
const (
	MetaRA            MetaKey = "snra"
	MetaDec           MetaKey = "sndec"
	MetaGalRA         MetaKey = "galra"
	MetaGalDec        MetaKey = "galdec"
	MetaDiscoverYear  MetaKey = "discoveryear"
	MetaDiscoverMonth MetaKey = "discovermonth"
	MetaDiscoverDay   MetaKey = "discoverday"
	MetaMaxYear       MetaKey = "maxyear"
	MetaMaxMonth      MetaKey = "maxmonth"
	MetaMaxDay        MetaKey = "maxday"
	MetaMaxAppMag     MetaKey = "maxappmag"
	MetaMaxAbsMag     MetaKey = "maxabsmag"
	MetaDiscoverer    MetaKey = "discoverer"
)

// MetaKeys lists every scalar metadata key; the serializer sorts the middle
// document section itself.
var MetaKeys = []MetaKey{
	MetaRA,
	MetaDec,
	MetaGalRA,
	MetaGalDec,
	MetaDiscoverYear,
	MetaDiscoverMonth,
	MetaDiscoverDay,
	MetaMaxYear,
	MetaMaxMonth,
	MetaMaxDay,
	MetaMaxAppMag,
	MetaMaxAbsMag,
	MetaDiscoverer,
}

// typeAliases folds variant claimed-type spellings onto canonical ones.
var typeAliases = map[string]string{
	"I pec": "I P", "I-pec": "I P", "I Pec": "I P", "I-Pec": "I P",
	"Ia pec": "Ia P", "Ia-pec": "Ia P", "Iapec": "Ia P",
	"Ib pec": "Ib P", "Ib-pec": "Ib P",
	"Ic pec": "Ic P", "Ic-pec": "Ic P",
	"Ibc":       "Ib/c",
	"Ib/c-pec":  "Ib/c P",
	"II pec":    "II P",
	"IIpec":     "II P",
	"II Pec":    "II P",
	"IIPec":     "II P",
	"IIP":       "II P",
	"IIp":       "II P",
	"II p":      "II P",
	"II-pec":    "II P",
	"II P pec":  "II P",
	"II-P":      "II P",
	"IIL":       "II L",
	"IIn pec":   "IIn P",
	"IIn-pec":   "IIn P",
	"IIb-pec":   "IIb P",
	"IIb: pec":  "IIb P",
}

// CanonicalType returns the canonical spelling of a claimed type.
func CanonicalType(v string) string {
	if canon, ok := typeAliases[v]; ok {
		return canon
	}
	return v
}
