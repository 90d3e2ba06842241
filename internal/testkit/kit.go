package testkit

import (
	"math/rand/v2"

	"ksboot/adapters/rng"
	"ksboot/adapters/sampling"
	"ksboot/adapters/stats/senses"
	"ksboot/domain/partition"
	"ksboot/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestKit provides testing utilities and synthetic fixtures
type TestKit struct {
	src     *rand.Rand
	sampler *sampling.WithoutReplacement
}

// NewTestKit creates a test kit whose fixtures are reproducible from seed
func NewTestKit(seed uint64) *TestKit {
	return &TestKit{
		src:     rand.New(rand.NewPCG(seed, 0x5eed)),
		sampler: sampling.NewWithoutReplacement(),
	}
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewAdapter()
}

// Statistic returns the KS statistic provider
func (t *TestKit) Statistic() ports.StatisticPort {
	return senses.NewKolmogorovSmirnovSense()
}

// Sampler returns the without-replacement subset sampler
func (t *TestKit) Sampler() ports.SubsetSamplerPort {
	return t.sampler
}

// Source exposes the kit's random stream for tests that need extra draws
func (t *TestKit) Source() *rand.Rand {
	return t.src
}

// Normal draws n observations from N(mu, sigma^2)
func (t *TestKit) Normal(n int, mu, sigma float64) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: t.src}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// RandomSplit partitions values into a uniformly random k-subset and its complement
func (t *TestKit) RandomSplit(values []float64, k int) ([]float64, []float64) {
	chosen, err := t.sampler.Choose(t.src, len(values), k)
	if err != nil {
		panic(err)
	}
	return partition.Partition{A: chosen, B: t.sampler.Complement(len(values), chosen)}.Materialize(values)
}

// ShiftedPair draws N(0,1) and N(shift,1) samples and returns their
// concatenation as the parent alongside both groups.
func (t *TestKit) ShiftedPair(n1, n2 int, shift float64) (parent, a, b []float64) {
	a = t.Normal(n1, 0, 1)
	b = t.Normal(n2, shift, 1)
	parent = make([]float64, 0, n1+n2)
	parent = append(parent, a...)
	parent = append(parent, b...)
	return parent, a, b
}
