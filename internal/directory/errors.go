package directory

import "errors"

var (
	// ErrUnknownEntity is returned when a merge names an entity the
	// directory has never seen.
	ErrUnknownEntity = errors.New("directory: unknown entity")

	// ErrSourcelessRecord means a record referenced a citation alias that
	// does not exist in its owner's registry. The catalog is corrupt and
	// ingestion must stop.
	ErrSourcelessRecord = errors.New("directory: record references a missing citation")

	// ErrStubLoad means a stub's full document could not be read back from
	// disk during a merge.
	ErrStubLoad = errors.New("directory: cannot materialize stub")
)
