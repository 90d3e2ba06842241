package battery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"ksboot/adapters/diagnostic"
	"ksboot/domain/core"
	"ksboot/domain/partition"
	"ksboot/internal"
	"ksboot/ports"

	"golang.org/x/sync/errgroup"
)

const stageName = "partition-bootstrap"

// PartitionReferee tests whether an observed two-way split of a dataset is
// further apart, by a two-sample distance, than random splits of the same sizes.
type PartitionReferee struct {
	statistic  ports.StatisticPort
	sampler    ports.SubsetSamplerPort
	rngPort    ports.RNGPort
	sink       ports.DiagnosticSink
	logger     *internal.Logger
	iterations int
	workers    int
	seed       *uint64
	strict     bool
}

// Option configures a PartitionReferee
type Option func(*PartitionReferee)

// WithIterations sets the number of random partitions drawn per run
func WithIterations(n int) Option {
	return func(pr *PartitionReferee) { pr.iterations = n }
}

// WithWorkers sets how many goroutines share the iterations
func WithWorkers(n int) Option {
	return func(pr *PartitionReferee) { pr.workers = n }
}

// WithSeed fixes the base seed so runs are reproducible
func WithSeed(seed uint64) Option {
	return func(pr *PartitionReferee) { pr.seed = &seed }
}

// WithDiagnosticSink makes BootstrapTest emit the null distribution to sink
func WithDiagnosticSink(sink ports.DiagnosticSink) Option {
	return func(pr *PartitionReferee) { pr.sink = sink }
}

// WithStrictPartition requires the sub-samples to reconstruct the parent exactly
func WithStrictPartition(strict bool) Option {
	return func(pr *PartitionReferee) { pr.strict = strict }
}

// WithLogger replaces the default logger
func WithLogger(logger *internal.Logger) Option {
	return func(pr *PartitionReferee) { pr.logger = logger }
}

// NewPartitionReferee creates a referee with 1000 iterations and 4 workers
func NewPartitionReferee(statistic ports.StatisticPort, sampler ports.SubsetSamplerPort, rngPort ports.RNGPort, opts ...Option) *PartitionReferee {
	pr := &PartitionReferee{
		statistic:  statistic,
		sampler:    sampler,
		rngPort:    rngPort,
		logger:     internal.DefaultLogger,
		iterations: partition.DefaultIterations,
		workers:    4,
	}
	for _, opt := range opts {
		opt(pr)
	}
	pr.logger = pr.logger.With("PartitionReferee")
	return pr
}

// BootstrapTest returns the fraction of random partitions whose statistic is
// strictly below the statistic of (subA, subB). The diagnostic sink, if
// configured, is fed the null distribution.
func (pr *PartitionReferee) BootstrapTest(ctx context.Context, parent, subA, subB []float64) (float64, error) {
	res, err := pr.Run(ctx, partition.BootstrapRequest{
		Parent:         parent,
		SubA:           subA,
		SubB:           subB,
		Iterations:     pr.iterations,
		EmitDiagnostic: pr.sink != nil,
		Seed:           pr.seed,
		Workers:        pr.workers,
		Strict:         pr.strict,
	})
	if err != nil {
		return 0, err
	}
	return res.Percentile, nil
}

// Run performs one bootstrap and returns the full result
func (pr *PartitionReferee) Run(ctx context.Context, req partition.BootstrapRequest) (*partition.BootstrapResult, error) {
	n, k, m := len(req.Parent), len(req.SubA), len(req.SubB)
	if err := partition.ValidateSizes(n, k, m, req.Iterations); err != nil {
		return nil, err
	}
	if req.Strict && !partition.SameMultiset(req.Parent, req.SubA, req.SubB) {
		return nil, fmt.Errorf("%w (parent n=%d, sides %d+%d)", core.ErrPartitionMismatch, n, k, m)
	}
	if k+m < n {
		pr.logger.Warn("sub-samples cover %d of %d observations; random complements will have %d", k+m, n, n-k)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewTimeoutError(0, req.Iterations, err)
	}

	workers := req.Workers
	if workers <= 0 {
		workers = pr.workers
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > req.Iterations {
		workers = req.Iterations
	}

	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = rand.Uint64()
	}

	start := time.Now()
	pr.logger.Info("drawing %d random %d/%d partitions of %d observations (workers=%d, seed=%d)", req.Iterations, k, n-k, n, workers, seed)

	null, err := pr.nullDistribution(ctx, req.Parent, k, req.Iterations, workers, seed)
	if err != nil {
		return nil, err
	}

	observed, observedP, err := pr.statistic.Distance(req.SubA, req.SubB)
	if err != nil {
		return nil, fmt.Errorf("observed partition: %w", err)
	}

	below := 0
	for _, d := range null {
		if d < observed {
			below++
		}
	}
	percentile := float64(below) / float64(req.Iterations)

	summary, err := diagnostic.Summarize(null)
	if err != nil {
		pr.logger.Warn("could not summarize null distribution: %v", err)
	}

	pr.logger.Info("observed D=%.4f above %d/%d random partitions (percentile %.3f) in %s", observed, below, req.Iterations, percentile, time.Since(start))

	if req.EmitDiagnostic {
		pr.emit(null, observed)
	}

	return &partition.BootstrapResult{
		Percentile:     percentile,
		Observed:       observed,
		ObservedPValue: observedP,
		Iterations:     req.Iterations,
		SizeA:          k,
		SizeB:          m,
		Seed:           seed,
		Workers:        workers,
		Summary:        summary,
		Null:           null,
	}, nil
}

// nullDistribution splits the iterations into contiguous slices, one per
// worker. Each worker owns its RNG stream and writes only to its slice.
func (pr *PartitionReferee) nullDistribution(ctx context.Context, parent []float64, k, iterations, workers int, seed uint64) ([]float64, error) {
	null := make([]float64, iterations)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	chunk := (iterations + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, iterations)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			src, err := pr.rngPort.Stream(gctx, "", stageName, fmt.Sprintf("worker-%d", w), seed)
			if err != nil {
				return err
			}
			return pr.fill(gctx, src, parent, k, null[lo:hi], lo, &completed)
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, core.NewTimeoutError(int(completed.Load()), iterations, ctxErr)
		}
		return nil, err
	}
	return null, nil
}

func (pr *PartitionReferee) fill(ctx context.Context, src rand.Source, parent []float64, k int, out []float64, offset int, completed *atomic.Int64) error {
	n := len(parent)
	groupA := make([]float64, k)
	groupB := make([]float64, n-k)

	for i := range out {
		if err := ctx.Err(); err != nil {
			return err
		}

		chosen, err := pr.sampler.Choose(src, n, k)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", offset+i, err)
		}
		rest := pr.sampler.Complement(n, chosen)
		p := partition.Partition{A: chosen, B: rest}
		if size, _ := p.Sizes(); size != k {
			return fmt.Errorf("iteration %d: %w", offset+i, core.NewInvalidPartitionError("sampler returned %d indices, want %d", size, k))
		}
		if err := p.Validate(n); err != nil {
			return fmt.Errorf("iteration %d: %w", offset+i, err)
		}

		for j, idx := range chosen {
			groupA[j] = parent[idx]
		}
		for j, idx := range rest {
			groupB[j] = parent[idx]
		}

		d, _, err := pr.statistic.Distance(groupA, groupB)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", offset+i, err)
		}
		out[i] = d
		completed.Add(1)
	}
	return nil
}

func (pr *PartitionReferee) emit(null []float64, observed float64) {
	if pr.sink == nil {
		pr.logger.Warn("diagnostic requested but no sink configured")
		return
	}
	snapshot := make([]float64, len(null))
	copy(snapshot, null)
	if err := pr.sink.Emit(snapshot, observed); err != nil {
		pr.logger.Warn("diagnostic sink failed: %v", err)
	}
}
