package services

import "errors"

// Position service errors
var (
	// ErrNotLoaded is returned when queries arrive before the first
	// successful load.
	ErrNotLoaded = errors.New("positioning data not loaded")

	// ErrNoData is returned when the loaded dataset is empty.
	ErrNoData = errors.New("no positioning data available")

	// ErrLoadSuperseded is returned when a load finished after a newer load
	// had already installed its result; the stale result is discarded.
	ErrLoadSuperseded = errors.New("load superseded by a newer request")
)
