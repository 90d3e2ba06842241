package partition

import (
	"errors"
	"testing"

	"ksboot/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSizes(t *testing.T) {
	tests := []struct {
		name                        string
		n, sizeA, sizeB, iterations int
		want                        error
	}{
		{"valid", 10, 3, 7, 100, nil},
		{"short complement allowed", 10, 3, 5, 100, nil},
		{"empty parent", 0, 0, 0, 100, core.ErrDegenerateDataset},
		{"single observation", 1, 1, 0, 100, core.ErrDegenerateDataset},
		{"empty first side", 10, 0, 10, 100, core.ErrInvalidPartition},
		{"negative first side", 10, -1, 10, 100, core.ErrInvalidPartition},
		{"first side is whole parent", 10, 10, 0, 100, core.ErrInvalidPartition},
		{"first side exceeds parent", 10, 11, 0, 100, core.ErrInvalidPartition},
		{"empty second side", 10, 4, 0, 100, core.ErrInvalidPartition},
		{"sides exceed parent", 10, 4, 7, 100, core.ErrInvalidPartition},
		{"zero iterations", 10, 3, 7, 0, core.ErrInvalidPartition},
		{"negative iterations", 10, 3, 7, -5, core.ErrInvalidPartition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSizes(tt.n, tt.sizeA, tt.sizeB, tt.iterations)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateSizes_SingleObservationWholeParent(t *testing.T) {
	err := ValidateSizes(1, 1, 0, 100)

	assert.ErrorIs(t, err, core.ErrDegenerateDataset)
	assert.ErrorIs(t, err, core.ErrInvalidPartition)

	// an empty first side on a single observation is only degenerate
	err = ValidateSizes(1, 0, 1, 100)
	assert.ErrorIs(t, err, core.ErrDegenerateDataset)
	assert.NotErrorIs(t, err, core.ErrInvalidPartition)
}

func TestPartition_ValidateAndMaterialize(t *testing.T) {
	parent := []float64{10, 11, 12, 13, 14}

	p := Partition{A: []int{4, 0}, B: []int{1, 2, 3}}
	require.NoError(t, p.Validate(len(parent)))

	a, b := p.Materialize(parent)
	assert.Equal(t, []float64{14, 10}, a)
	assert.Equal(t, []float64{11, 12, 13}, b)

	sa, sb := p.Sizes()
	assert.Equal(t, 2, sa)
	assert.Equal(t, 3, sb)

	assert.ErrorIs(t, Partition{A: []int{0, 1}, B: []int{1, 2, 3}}.Validate(5), core.ErrInvalidPartition)
	assert.ErrorIs(t, Partition{A: []int{0, 9}, B: []int{1, 2, 3}}.Validate(5), core.ErrInvalidPartition)
	assert.ErrorIs(t, Partition{A: []int{0}, B: []int{1, 2, 3}}.Validate(5), core.ErrInvalidPartition)
}

func TestSameMultiset(t *testing.T) {
	parent := []float64{1, 2, 2, 3}

	assert.True(t, SameMultiset(parent, []float64{2, 1}, []float64{3, 2}))
	assert.False(t, SameMultiset(parent, []float64{2, 1}, []float64{3, 3}))
	assert.False(t, SameMultiset(parent, []float64{2}, []float64{3, 2}))
}
