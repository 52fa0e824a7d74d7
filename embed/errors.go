package embed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrNoTexts is returned when embedding generation is invoked with an
	// empty input set.
	ErrNoTexts = errors.New("no texts to embed")

	// ErrDimensionMismatch is returned when the service produces a vector
	// of unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidComponent is returned when a vector contains NaN or Inf.
	ErrInvalidComponent = errors.New("embedding contains non-finite component")

	// ErrCountMismatch is returned when a batch call returns a different
	// number of vectors than texts submitted.
	ErrCountMismatch = errors.New("embedding count does not match input count")
)
