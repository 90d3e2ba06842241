package rng

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"ksboot/domain/core"
)

// Adapter hands out independent PCG streams keyed by name and seed
type Adapter struct{}

// NewAdapter creates a new RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (r *Adapter) SeededStream(ctx context.Context, name string, seed uint64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(seed, mix(hashString(name)))), nil
}

// Stream creates a deterministic RNG stream for a specific run/stage/key.
// The same (runID, stageName, key, baseSeed) always yields the same sequence.
func (r *Adapter) Stream(ctx context.Context, runID, stageName, key string, baseSeed uint64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := hashString(runID + "\x00" + stageName + "\x00" + key)
	return rand.New(rand.NewPCG(mix(baseSeed^h), mix(h))), nil
}

// ValidateSeed ensures the seed reproduces the expected Float64 prefix
func (r *Adapter) ValidateSeed(ctx context.Context, name string, seed uint64, expected []float64) error {
	stream, err := r.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		got := stream.Float64()
		if math.Abs(got-want) > 1e-15 {
			return fmt.Errorf("%w: stream %q draw %d = %v, expected %v", core.ErrSeedMismatch, name, i, got, want)
		}
	}
	return nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// mix is the splitmix64 finalizer; it spreads nearby seeds across the state space
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
