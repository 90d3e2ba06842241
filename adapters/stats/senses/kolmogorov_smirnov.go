package senses

import (
	"math"
	"sort"

	"ksboot/domain/core"

	"gonum.org/v1/gonum/stat"
)

// KolmogorovSmirnovSense measures the largest gap between two empirical CDFs
type KolmogorovSmirnovSense struct{}

// NewKolmogorovSmirnovSense creates a new two-sample KS sense
func NewKolmogorovSmirnovSense() *KolmogorovSmirnovSense {
	return &KolmogorovSmirnovSense{}
}

// Name returns the sense name
func (s *KolmogorovSmirnovSense) Name() string {
	return "kolmogorov_smirnov"
}

// Description returns a human-readable description
func (s *KolmogorovSmirnovSense) Description() string {
	return "Two-sample Kolmogorov-Smirnov distance between empirical distributions"
}

// Distance returns the KS statistic and its asymptotic two-sided p-value.
// Inputs are copied before sorting.
func (s *KolmogorovSmirnovSense) Distance(a, b []float64) (float64, float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, core.NewStatisticError("both samples must be non-empty")
	}

	x, err := sortedCopy(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := sortedCopy(b)
	if err != nil {
		return 0, 0, err
	}

	// nil weights: every observation counts once
	d := stat.KolmogorovSmirnov(x, nil, y, nil)

	n, m := float64(len(x)), float64(len(y))
	en := math.Sqrt(n * m / (n + m))
	return d, kolmogorovQ(en * d), nil
}

// Analyze runs the test and packages the outcome for display
func (s *KolmogorovSmirnovSense) Analyze(a, b []float64) (SenseResult, error) {
	d, p, err := s.Distance(a, b)
	if err != nil {
		return SenseResult{}, err
	}
	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   d,
		PValue:      p,
		SizeA:       len(a),
		SizeB:       len(b),
		Signal:      classifySignal(d),
		Description: describe(s.Name(), d, p, len(a), len(b)),
	}, nil
}

func sortedCopy(v []float64) ([]float64, error) {
	out := make([]float64, len(v))
	copy(out, v)
	sort.Float64s(out)
	// sort.Float64s orders NaN first
	if math.IsNaN(out[0]) {
		return nil, core.NewStatisticError("sample contains NaN")
	}
	return out, nil
}

// kolmogorovQ is the survival function of the Kolmogorov distribution,
// P(K > z), using the small-z Jacobi form below 1.18 and the alternating
// series above it.
func kolmogorovQ(z float64) float64 {
	if z <= 0 {
		return 1
	}
	var q float64
	if z < 1.18 {
		y := math.Exp(-1.23370055013616983 / (z * z))
		p := 2.25675833419102515 * math.Sqrt(-math.Log(y)) * (y + math.Pow(y, 9) + math.Pow(y, 25) + math.Pow(y, 49))
		q = 1 - p
	} else {
		x := math.Exp(-2 * z * z)
		q = 2 * (x - math.Pow(x, 4) + math.Pow(x, 9))
	}
	return math.Max(0, math.Min(1, q))
}
