package senses

import (
	"fmt"
	"math"
)

// SenseResult represents the output of a two-sample comparison
type SenseResult struct {
	SenseName   string  `json:"sense_name" yaml:"sense_name"`
	Statistic   float64 `json:"statistic" yaml:"statistic"`
	PValue      float64 `json:"p_value" yaml:"p_value"`
	SizeA       int     `json:"size_a" yaml:"size_a"`
	SizeB       int     `json:"size_b" yaml:"size_b"`
	Signal      string  `json:"signal" yaml:"signal"`           // "weak", "moderate", "strong", "very_strong"
	Description string  `json:"description" yaml:"description"` // Human-readable explanation
}

// classifySignal buckets a sup-distance between two ECDFs
func classifySignal(distance float64) string {
	d := math.Abs(distance)
	switch {
	case d < 0.1:
		return "weak"
	case d < 0.2:
		return "moderate"
	case d < 0.4:
		return "strong"
	default:
		return "very_strong"
	}
}

func describe(name string, statistic, pValue float64, n, m int) string {
	verdict := "cannot reject equal distributions"
	if pValue < 0.05 {
		verdict = "distributions differ at the 5% level"
	}
	return fmt.Sprintf("%s: D=%.4f, p=%.4g (n=%d, m=%d); %s", name, statistic, pValue, n, m, verdict)
}
