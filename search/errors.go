package search

import "errors"

var (
	// ErrEmptyQuery is returned when search is invoked with no query text.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrChunkNotEmbedded is returned when related-chunk lookup targets a
	// chunk that has no vector yet.
	ErrChunkNotEmbedded = errors.New("chunk has no embedding")
)
