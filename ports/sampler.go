package ports

import "math/rand/v2"

// SubsetSamplerPort draws uniformly random index subsets without replacement
type SubsetSamplerPort interface {
	// Choose returns k distinct indices from [0, n)
	Choose(src rand.Source, n, k int) ([]int, error)

	// Complement returns the indices of [0, n) not in chosen, in ascending order
	Complement(n int, chosen []int) []int
}
