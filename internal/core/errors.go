package core

import "errors"

// Error taxonomy for the memory engine. Callers are expected to test
// with errors.Is; concrete causes are wrapped onto these sentinels.
var (
	// ErrConfiguration marks invalid or missing configuration: unknown
	// embedder provider, vector dimension mismatch, unresolvable
	// storage root. Raised at initialization, never retried.
	ErrConfiguration = errors.New("recall: invalid configuration")

	// ErrEmbedding marks a failed embedding computation. Fatal on the
	// write path; the read path absorbs it and degrades to empty results.
	ErrEmbedding = errors.New("recall: embedding failed")

	// ErrStorage marks an unavailable or corrupted backing store.
	ErrStorage = errors.New("recall: storage failure")

	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("recall: not found")
)
