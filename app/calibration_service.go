package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"ksboot/domain/partition"
	"ksboot/internal"
	"ksboot/internal/errors"
	"ksboot/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

const calibrationStage = "calibration"

// CalibrationService checks the statistic and the bootstrap against
// synthetic data whose answer is known.
type CalibrationService struct {
	statistic ports.StatisticPort
	sampler   ports.SubsetSamplerPort
	referee   ports.BootstrapPort
	rngPort   ports.RNGPort
	seed      uint64
	workers   int
	logger    *internal.Logger
}

// FalsePositiveReport summarises repeated same-distribution KS tests
type FalsePositiveReport struct {
	Trials        int     `json:"trials" yaml:"trials"`
	Alpha         float64 `json:"alpha" yaml:"alpha"`
	Rejections    int     `json:"rejections" yaml:"rejections"`
	Rate          float64 `json:"rate" yaml:"rate"`
	MeanStatistic float64 `json:"mean_statistic" yaml:"mean_statistic"`
	MedianPValue  float64 `json:"median_p_value" yaml:"median_p_value"`
}

// NullCalibrationReport summarises bootstrap percentiles of random splits
type NullCalibrationReport struct {
	Trials       int       `json:"trials" yaml:"trials"`
	Iterations   int       `json:"iterations" yaml:"iterations"`
	Mean         float64   `json:"mean" yaml:"mean"`
	StdDev       float64   `json:"std_dev" yaml:"std_dev"`
	Percentile5  float64   `json:"p5" yaml:"p5"`
	Percentile95 float64   `json:"p95" yaml:"p95"`
	Percentiles  []float64 `json:"-" yaml:"-"`
}

// NewCalibrationService creates a calibration service. seed fixes every trial.
func NewCalibrationService(statistic ports.StatisticPort, sampler ports.SubsetSamplerPort, referee ports.BootstrapPort, rngPort ports.RNGPort, seed uint64, workers int, logger *internal.Logger) *CalibrationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if workers <= 0 {
		workers = 1
	}
	return &CalibrationService{
		statistic: statistic,
		sampler:   sampler,
		referee:   referee,
		rngPort:   rngPort,
		seed:      seed,
		workers:   workers,
		logger:    logger.With("CalibrationService"),
	}
}

// KSFalsePositiveRate draws two N(0,1) samples of sizes n1 and n2 per trial
// and counts how often the KS p-value falls below alpha.
func (s *CalibrationService) KSFalsePositiveRate(ctx context.Context, n1, n2, trials int, alpha float64) (*FalsePositiveReport, error) {
	if n1 <= 0 || n2 <= 0 || trials <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("n1, n2 and trials must be positive (got %d, %d, %d)", n1, n2, trials))
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("alpha must be in (0, 1), got %g", alpha))
	}

	statistics := make([]float64, trials)
	pValues := make([]float64, trials)
	var rejections atomic.Int64

	err := s.forEachTrial(ctx, "ks-false-positive", trials, func(i int, src rand.Source) error {
		a := normal(src, n1, 0)
		b := normal(src, n2, 0)
		d, p, err := s.statistic.Distance(a, b)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		statistics[i], pValues[i] = d, p
		if p < alpha {
			rejections.Add(1)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "KS calibration failed")
	}

	meanD, _ := stats.Mean(statistics)
	medianP, _ := stats.Median(pValues)
	report := &FalsePositiveReport{
		Trials:        trials,
		Alpha:         alpha,
		Rejections:    int(rejections.Load()),
		Rate:          float64(rejections.Load()) / float64(trials),
		MeanStatistic: meanD,
		MedianPValue:  medianP,
	}
	s.logger.Info("KS n1=%d n2=%d: %d/%d rejections at alpha=%.3f", n1, n2, report.Rejections, trials, alpha)
	return report, nil
}

// NullCalibration repeatedly splits an N(0,1) sample of size n into a random
// k-subset and its complement and bootstraps that split. Percentiles of
// random splits should be close to uniform with mean near 0.5.
func (s *CalibrationService) NullCalibration(ctx context.Context, n, k, trials, iterations int) (*NullCalibrationReport, error) {
	if trials <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("trials must be positive, got %d", trials))
	}
	if err := partition.ValidateSizes(n, k, n-k, iterations); err != nil {
		return nil, errors.Wrap(err, "null calibration")
	}

	percentiles := make([]float64, trials)
	for i := 0; i < trials; i++ {
		src, err := s.rngPort.Stream(ctx, "", calibrationStage, fmt.Sprintf("null-%d", i), s.seed)
		if err != nil {
			return nil, errors.Wrap(err, "null calibration")
		}
		parent := normal(src, n, 0)
		subA, subB, err := s.split(src, parent, k)
		if err != nil {
			return nil, errors.Wrapf(err, "trial %d", i)
		}

		res, err := s.referee.Run(ctx, partition.BootstrapRequest{
			Parent:     parent,
			SubA:       subA,
			SubB:       subB,
			Iterations: iterations,
			Workers:    s.workers,
			Seed:       partition.SeedPtr(src.Uint64()),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "trial %d", i)
		}
		percentiles[i] = res.Percentile
	}

	report := &NullCalibrationReport{Trials: trials, Iterations: iterations, Percentiles: percentiles}
	report.Mean, _ = stats.Mean(percentiles)
	report.StdDev, _ = stats.StandardDeviationSample(percentiles)
	report.Percentile5, _ = stats.Percentile(percentiles, 5)
	report.Percentile95, _ = stats.Percentile(percentiles, 95)

	s.logger.Info("null calibration n=%d k=%d: mean percentile %.3f over %d trials", n, k, report.Mean, trials)
	return report, nil
}

// SeparationScenario bootstraps the split of N(0,1) x n1 against N(shift,1) x n2.
func (s *CalibrationService) SeparationScenario(ctx context.Context, n1, n2 int, shift float64, iterations int) (*partition.BootstrapResult, error) {
	src, err := s.rngPort.Stream(ctx, "", calibrationStage, "separation", s.seed)
	if err != nil {
		return nil, errors.Wrap(err, "separation scenario")
	}
	a := normal(src, n1, 0)
	b := normal(src, n2, shift)
	parent := make([]float64, 0, n1+n2)
	parent = append(parent, a...)
	parent = append(parent, b...)

	res, err := s.referee.Run(ctx, partition.BootstrapRequest{
		Parent:     parent,
		SubA:       a,
		SubB:       b,
		Iterations: iterations,
		Workers:    s.workers,
		Seed:       partition.SeedPtr(s.seed),
	})
	if err != nil {
		return nil, errors.Wrap(err, "separation scenario")
	}
	return res, nil
}

// RandomSplitScenario draws N(0,1) x n and bootstraps a random k-subset against its complement
func (s *CalibrationService) RandomSplitScenario(ctx context.Context, n, k, iterations int) (*partition.BootstrapResult, error) {
	src, err := s.rngPort.Stream(ctx, "", calibrationStage, "random-split", s.seed)
	if err != nil {
		return nil, errors.Wrap(err, "random split scenario")
	}
	parent := normal(src, n, 0)
	subA, subB, err := s.split(src, parent, k)
	if err != nil {
		return nil, errors.Wrap(err, "random split scenario")
	}

	res, err := s.referee.Run(ctx, partition.BootstrapRequest{
		Parent:     parent,
		SubA:       subA,
		SubB:       subB,
		Iterations: iterations,
		Workers:    s.workers,
		Seed:       partition.SeedPtr(s.seed),
	})
	if err != nil {
		return nil, errors.Wrap(err, "random split scenario")
	}
	return res, nil
}

// forEachTrial runs fn for trials in parallel. Trial i always draws from the
// same stream regardless of scheduling.
func (s *CalibrationService) forEachTrial(ctx context.Context, key string, trials int, fn func(i int, src rand.Source) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < trials; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := s.rngPort.Stream(gctx, "", calibrationStage, fmt.Sprintf("%s-%d", key, i), s.seed)
			if err != nil {
				return err
			}
			return fn(i, src)
		})
	}
	return g.Wait()
}

func (s *CalibrationService) split(src rand.Source, parent []float64, k int) ([]float64, []float64, error) {
	chosen, err := s.sampler.Choose(src, len(parent), k)
	if err != nil {
		return nil, nil, err
	}
	p := partition.Partition{A: chosen, B: s.sampler.Complement(len(parent), chosen)}
	a, b := p.Materialize(parent)
	return a, b, nil
}

func normal(src rand.Source, n int, mu float64) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: 1, Src: src}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}
