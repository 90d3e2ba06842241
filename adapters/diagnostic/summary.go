package diagnostic

import (
	"ksboot/domain/partition"

	"github.com/montanaflynn/stats"
)

// Summarize reduces a null distribution to the statistics reported alongside a result
func Summarize(null []float64) (partition.NullSummary, error) {
	summary := partition.NullSummary{}
	if len(null) == 0 {
		return summary, stats.ErrEmptyInput
	}

	var err error
	if summary.Mean, err = stats.Mean(null); err != nil {
		return summary, err
	}
	if len(null) > 1 {
		if summary.StdDev, err = stats.StandardDeviationSample(null); err != nil {
			return summary, err
		}
	}
	if summary.Min, err = stats.Min(null); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(null); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(null); err != nil {
		return summary, err
	}
	if summary.Percentile95, err = stats.Percentile(null, 95); err != nil {
		return summary, err
	}
	if summary.Percentile99, err = stats.Percentile(null, 99); err != nil {
		return summary, err
	}
	return summary, nil
}
