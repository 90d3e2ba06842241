package sampling

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// WithoutReplacement draws uniform k-subsets of an index range
type WithoutReplacement struct{}

// NewWithoutReplacement creates a new subset sampler
func NewWithoutReplacement() *WithoutReplacement {
	return &WithoutReplacement{}
}

// Choose returns k distinct indices drawn uniformly from [0, n).
// A nil src falls back to the global math/rand/v2 source.
func (s *WithoutReplacement) Choose(src rand.Source, n, k int) ([]int, error) {
	if k < 0 || n < 0 {
		return nil, fmt.Errorf("negative subset request: n=%d k=%d", n, k)
	}
	if k > n {
		return nil, fmt.Errorf("cannot choose %d of %d without replacement", k, n)
	}
	if k == 0 {
		// sampleuv rejects empty destinations
		return []int{}, nil
	}
	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, n, src)
	return idxs, nil
}

// Complement returns the indices of [0, n) not present in chosen, ascending
func (s *WithoutReplacement) Complement(n int, chosen []int) []int {
	taken := make([]bool, n)
	for _, idx := range chosen {
		taken[idx] = true
	}
	out := make([]int, 0, n-len(chosen))
	for i := 0; i < n; i++ {
		if !taken[i] {
			out = append(out, i)
		}
	}
	return out
}
