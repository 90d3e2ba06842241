package partition

import (
	"fmt"
	"sort"

	"ksboot/domain/core"
)

// DefaultIterations is the number of random partitions drawn per run
const DefaultIterations = 1000

// Partition is a pair of disjoint index sets over a parent dataset
type Partition struct {
	A []int `json:"a"`
	B []int `json:"b"`
}

// Sizes returns the number of indices on each side
func (p Partition) Sizes() (int, int) {
	return len(p.A), len(p.B)
}

// Validate checks that A and B are disjoint and together cover 0..n-1
func (p Partition) Validate(n int) error {
	a, b := p.Sizes()
	if a+b != n {
		return core.NewInvalidPartitionError("sides hold %d+%d indices, parent has %d", a, b, n)
	}
	seen := make([]bool, n)
	for _, side := range [][]int{p.A, p.B} {
		for _, idx := range side {
			if idx < 0 || idx >= n {
				return core.NewInvalidPartitionError("index %d out of range [0,%d)", idx, n)
			}
			if seen[idx] {
				return core.NewInvalidPartitionError("index %d appears twice", idx)
			}
			seen[idx] = true
		}
	}
	return nil
}

// Materialize indexes the parent at each side's indices
func (p Partition) Materialize(parent []float64) ([]float64, []float64) {
	a := make([]float64, len(p.A))
	for i, idx := range p.A {
		a[i] = parent[idx]
	}
	b := make([]float64, len(p.B))
	for i, idx := range p.B {
		b[i] = parent[idx]
	}
	return a, b
}

// BootstrapRequest carries everything one bootstrap run needs.
// A nil Seed draws a fresh one; Workers <= 0 uses the engine default.
type BootstrapRequest struct {
	Parent         []float64
	SubA           []float64
	SubB           []float64
	Iterations     int
	EmitDiagnostic bool
	Seed           *uint64
	Workers        int
	Strict         bool
}

// SeedPtr is a convenience for filling BootstrapRequest.Seed
func SeedPtr(seed uint64) *uint64 {
	return &seed
}

// BootstrapResult is the outcome of one run. Percentile is the fraction of
// the null distribution strictly below Observed.
type BootstrapResult struct {
	Percentile     float64     `json:"percentile" yaml:"percentile"`
	Observed       float64     `json:"observed_statistic" yaml:"observed_statistic"`
	ObservedPValue float64     `json:"observed_p_value" yaml:"observed_p_value"`
	Iterations     int         `json:"iterations" yaml:"iterations"`
	SizeA          int         `json:"size_a" yaml:"size_a"`
	SizeB          int         `json:"size_b" yaml:"size_b"`
	Seed           uint64      `json:"seed" yaml:"seed"`
	Workers        int         `json:"workers" yaml:"workers"`
	Summary        NullSummary `json:"null_summary" yaml:"null_summary"`
	Null           []float64   `json:"-" yaml:"-"`
}

// NullSummary describes the empirical null distribution
type NullSummary struct {
	Mean         float64 `json:"mean" yaml:"mean"`
	StdDev       float64 `json:"std_dev" yaml:"std_dev"`
	Min          float64 `json:"min" yaml:"min"`
	Max          float64 `json:"max" yaml:"max"`
	Median       float64 `json:"median" yaml:"median"`
	Percentile95 float64 `json:"p95" yaml:"p95"`
	Percentile99 float64 `json:"p99" yaml:"p99"`
}

// ValidateSizes applies the size rules shared by every entry point
func ValidateSizes(n, sizeA, sizeB, iterations int) error {
	if n < 2 {
		err := core.NewDegenerateDatasetError(n)
		if n > 0 && sizeA >= n {
			return fmt.Errorf("%w; %w", err, core.NewInvalidPartitionError("first sub-sample size %d leaves no complement", sizeA))
		}
		return err
	}
	if sizeA <= 0 {
		return core.NewInvalidPartitionError("first sub-sample is empty")
	}
	if sizeA >= n {
		return core.NewInvalidPartitionError("first sub-sample size %d leaves no complement in parent of %d", sizeA, n)
	}
	if sizeB <= 0 {
		return core.NewInvalidPartitionError("second sub-sample is empty")
	}
	if sizeA+sizeB > n {
		return core.NewInvalidPartitionError("sub-sample sizes %d+%d exceed parent size %d", sizeA, sizeB, n)
	}
	if iterations <= 0 {
		return core.NewInvalidPartitionError("iterations must be positive, got %d", iterations)
	}
	return nil
}

// SameMultiset reports whether a and b together hold exactly the values of parent
func SameMultiset(parent, a, b []float64) bool {
	if len(a)+len(b) != len(parent) {
		return false
	}
	want := append([]float64(nil), parent...)
	got := make([]float64, 0, len(parent))
	got = append(got, a...)
	got = append(got, b...)
	sort.Float64s(want)
	sort.Float64s(got)
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
