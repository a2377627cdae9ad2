package measure

import "errors"

var (
	// ErrNoSource is returned when a measurement arrives without a citation
	// alias. Measurements are never stored unattributed.
	ErrNoSource = errors.New("measure: measurement has no source")

	// ErrMalformed is returned when a measurement fails validation and is
	// dropped. Callers treat it as a per-record condition, not a fatal one.
	ErrMalformed = errors.New("measure: malformed measurement")
)
