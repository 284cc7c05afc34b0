package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// GroupStream creates a deterministic RNG stream for one group. Streams
	// depend only on (group, seed), never on run identity, so re-running with
	// the same seed reproduces identical fills even when groups run in
	// parallel.
	GroupStream(ctx context.Context, group string, baseSeed int64) (*rand.Rand, error)
}
