package quantity

import "errors"

// Sentinel kinds for quantity store errors.
var (
	// ErrNoSource marks a quantity arriving without any citation, which
	// would break provenance irrecoverably if stored.
	ErrNoSource = errors.New("quantity has no source")

	// ErrUnknownKind marks a kind outside the closed enumeration.
	ErrUnknownKind = errors.New("unknown quantity kind")
)
