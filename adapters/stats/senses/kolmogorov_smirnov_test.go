package senses

import (
	"math"
	"math/rand/v2"
	"testing"

	"ksboot/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKolmogorovSmirnovSense_Distance(t *testing.T) {
	sense := NewKolmogorovSmirnovSense()

	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{
			name:     "identical samples",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1, 2, 3, 4, 5},
			expected: 0,
		},
		{
			name:     "fully separated samples",
			a:        []float64{1, 2, 3},
			b:        []float64{4, 5, 6},
			expected: 1,
		},
		{
			name:     "half overlap",
			a:        []float64{1, 2, 3, 4},
			b:        []float64{3, 4, 5, 6},
			expected: 0.5,
		},
		{
			name:     "unsorted input with unequal sizes",
			a:        []float64{3, 1, 2},
			b:        []float64{2.5, 10, 0.5, 7, 8, 9},
			expected: 2.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, p, err := sense.Distance(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, d, 1e-12)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)

			// argument order must not change the magnitude
			dr, _, err := sense.Distance(tt.b, tt.a)
			require.NoError(t, err)
			assert.InDelta(t, d, dr, 1e-12)
		})
	}
}

func TestKolmogorovSmirnovSense_DoesNotMutateInput(t *testing.T) {
	a := []float64{5, 3, 1}
	b := []float64{4, 2}

	_, _, err := NewKolmogorovSmirnovSense().Distance(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 1}, a)
	assert.Equal(t, []float64{4, 2}, b)
}

func TestKolmogorovSmirnovSense_Errors(t *testing.T) {
	sense := NewKolmogorovSmirnovSense()

	_, _, err := sense.Distance(nil, []float64{1})
	assert.ErrorIs(t, err, core.ErrStatistic)

	_, _, err = sense.Distance([]float64{1, math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, core.ErrStatistic)
}

func TestKolmogorovQ(t *testing.T) {
	tests := []struct {
		z        float64
		expected float64
	}{
		{0, 1},
		{0.5, 0.9639},
		{1.0, 0.2700},
		{1.36, 0.0495},
		{1.63, 0.0098},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, kolmogorovQ(tt.z), 2e-3, "z=%v", tt.z)
	}
}

func TestKolmogorovSmirnovSense_PValueSeparatesDistributions(t *testing.T) {
	sense := NewKolmogorovSmirnovSense()
	rng := rand.New(rand.NewPCG(7, 11))

	same1, same2 := make([]float64, 500), make([]float64, 500)
	shifted := make([]float64, 500)
	for i := range same1 {
		same1[i] = rng.NormFloat64()
		same2[i] = rng.NormFloat64()
		shifted[i] = rng.NormFloat64()*1.5 + 1
	}

	_, pDiff, err := sense.Distance(same1, shifted)
	require.NoError(t, err)
	assert.Less(t, pDiff, 1e-6)

	res, err := sense.Analyze(same1, same2)
	require.NoError(t, err)
	assert.Equal(t, "kolmogorov_smirnov", res.SenseName)
	assert.Equal(t, 500, res.SizeA)
	assert.NotEmpty(t, res.Description)
	assert.Greater(t, res.PValue, 1e-4)
}
