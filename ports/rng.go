package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed uint64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific run/stage/worker.
	// Distinct keys yield independent streams, so concurrent workers never share state.
	Stream(ctx context.Context, runID, stageName, key string, baseSeed uint64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(ctx context.Context, name string, seed uint64, expected []float64) error
}
