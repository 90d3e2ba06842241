package rng

import (
	"context"
	"testing"

	"ksboot/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_SeededStreamDeterministic(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	a, err := adapter.SeededStream(ctx, "partition-bootstrap", 42)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "partition-bootstrap", 42)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestAdapter_StreamsAreIndependent(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	w0, err := adapter.Stream(ctx, "run", "bootstrap", "worker-0", 42)
	require.NoError(t, err)
	w1, err := adapter.Stream(ctx, "run", "bootstrap", "worker-1", 42)
	require.NoError(t, err)

	same := 0
	for i := 0; i < 64; i++ {
		if w0.Uint64() == w1.Uint64() {
			same++
		}
	}
	assert.Zero(t, same)
}

func TestAdapter_ValidateSeed(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	stream, err := adapter.SeededStream(ctx, "check", 7)
	require.NoError(t, err)
	expected := []float64{stream.Float64(), stream.Float64(), stream.Float64()}

	assert.NoError(t, adapter.ValidateSeed(ctx, "check", 7, expected))
	assert.ErrorIs(t, adapter.ValidateSeed(ctx, "check", 8, expected), core.ErrSeedMismatch)
}

func TestAdapter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter().SeededStream(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
