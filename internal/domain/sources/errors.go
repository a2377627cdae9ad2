package sources

import "errors"

// Sentinel kinds for citation errors.
var (
	ErrNoIdentity   = errors.New("source needs a reference name or bibcode")
	ErrUnknownAlias = errors.New("unknown citation alias")
)
