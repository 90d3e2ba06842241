package app

import (
	"context"
	"time"

	"ksboot/domain/core"
	"ksboot/domain/partition"
	"ksboot/domain/run"
	"ksboot/internal"
	"ksboot/internal/config"
	"ksboot/internal/errors"
	"ksboot/ports"
)

// The first draws of the seed-check stream are recorded in every manifest
const (
	seedCheckStream = "manifest-seed-check"
	seedCheckDraws  = 4
)

// BootstrapService runs partition bootstrap tests against labelled samples
type BootstrapService struct {
	referee ports.BootstrapPort
	rngPort ports.RNGPort
	config  config.BootstrapConfig
	logger  *internal.Logger
}

// RunOptions overrides the configured bootstrap settings for one run.
// Zero values fall back to configuration.
type RunOptions struct {
	Iterations     int
	Workers        int
	Seed           *uint64
	Timeout        time.Duration
	Strict         bool
	EmitDiagnostic bool
}

// NewBootstrapService creates a bootstrap service
func NewBootstrapService(referee ports.BootstrapPort, rngPort ports.RNGPort, cfg config.BootstrapConfig, logger *internal.Logger) *BootstrapService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BootstrapService{
		referee: referee,
		rngPort: rngPort,
		config:  cfg,
		logger:  logger.With("BootstrapService"),
	}
}

// Run tests the sample's observed split and returns a manifest of the run
func (s *BootstrapService) Run(ctx context.Context, sample *ports.LabelledSample, opts RunOptions) (*run.Manifest, error) {
	if sample == nil {
		return nil, errors.InvalidInput("sample cannot be nil")
	}
	return s.execute(ctx, sample, s.request(sample, opts), opts.Timeout)
}

// Replay re-runs a recorded manifest against sample and fails unless the
// dataset, the seed's generator and the percentile all match the record.
func (s *BootstrapService) Replay(ctx context.Context, sample *ports.LabelledSample, recorded *run.Manifest) (*run.Manifest, error) {
	if sample == nil || recorded == nil {
		return nil, errors.InvalidInput("sample and manifest are required")
	}
	if err := recorded.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}

	if got := core.ComputeDatasetHash(sample.Parent); got != recorded.Fingerprint.DatasetHash {
		return nil, errors.Wrap(core.NewReplayMismatchError("dataset hash %s, manifest has %s", got, recorded.Fingerprint.DatasetHash), "replay refused")
	}
	if len(recorded.SeedCheck) > 0 {
		if err := s.rngPort.ValidateSeed(ctx, seedCheckStream, recorded.Result.Seed, recorded.SeedCheck); err != nil {
			return nil, errors.Wrap(err, "replay refused")
		}
	}

	req := s.request(sample, RunOptions{})
	req.Iterations = recorded.Result.Iterations
	req.Workers = recorded.Result.Workers
	req.Seed = partition.SeedPtr(recorded.Result.Seed)

	s.logger.Info("replaying run %s (fingerprint %s)", recorded.RunID, recorded.Fingerprint.Fingerprint)
	manifest, err := s.execute(ctx, sample, req, 0)
	if err != nil {
		return nil, err
	}
	if manifest.Fingerprint.Fingerprint != recorded.Fingerprint.Fingerprint {
		return nil, errors.Wrap(core.NewReplayMismatchError("fingerprint %s, manifest has %s", manifest.Fingerprint.Fingerprint, recorded.Fingerprint.Fingerprint), "replay failed")
	}
	if manifest.Result.Percentile != recorded.Result.Percentile {
		return nil, errors.Wrap(core.NewReplayMismatchError("percentile %v, manifest has %v", manifest.Result.Percentile, recorded.Result.Percentile), "replay failed")
	}
	return manifest, nil
}

func (s *BootstrapService) execute(ctx context.Context, sample *ports.LabelledSample, req partition.BootstrapRequest, timeout time.Duration) (*run.Manifest, error) {
	if timeout == 0 {
		timeout = s.config.Timeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runID := core.NewRunID()
	startTime := time.Now()
	s.logger.Info("run %s: %s split on %q (%d/%d of %d)", runID, sample.Column, sample.Label, len(sample.SubA), len(sample.SubB), len(sample.Parent))

	result, err := s.referee.Run(runCtx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "partition bootstrap for %q failed", sample.Label)
	}

	manifest := run.NewManifest(runID, sample.Parent, result)
	manifest.Source = sample.Source
	manifest.Label = sample.Label
	manifest.Elapsed = time.Since(startTime).String()

	check, err := s.rngPort.SeededStream(ctx, seedCheckStream, result.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "seed check stream")
	}
	manifest.SeedCheck = make([]float64, seedCheckDraws)
	for i := range manifest.SeedCheck {
		manifest.SeedCheck[i] = check.Float64()
	}

	if err := manifest.Validate(); err != nil {
		return nil, errors.Wrap(err, "incomplete run manifest")
	}
	return manifest, nil
}

func (s *BootstrapService) request(sample *ports.LabelledSample, opts RunOptions) partition.BootstrapRequest {
	req := partition.BootstrapRequest{
		Parent:         sample.Parent,
		SubA:           sample.SubA,
		SubB:           sample.SubB,
		Iterations:     opts.Iterations,
		Workers:        opts.Workers,
		Seed:           opts.Seed,
		Strict:         opts.Strict || s.config.Strict,
		EmitDiagnostic: opts.EmitDiagnostic,
	}
	if req.Iterations == 0 {
		req.Iterations = s.config.Iterations
	}
	if req.Workers == 0 {
		req.Workers = s.config.Workers
	}
	if req.Seed == nil {
		req.Seed = partition.SeedPtr(s.config.Seed)
	}
	return req
}
