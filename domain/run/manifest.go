package run

import (
	"ksboot/domain/core"
	"ksboot/domain/partition"
)

// Manifest records one bootstrap run: what went in, how it was drawn and what came out.
// Re-running with the same fingerprint reproduces Result.Percentile exactly.
// SeedCheck holds the first draws of the seed's check stream so a replay can
// detect a changed generator before spending any iterations.
type Manifest struct {
	RunID       core.RunID                 `json:"run_id" yaml:"run_id"`
	Source      string                     `json:"source,omitempty" yaml:"source,omitempty"`
	Label       string                     `json:"label,omitempty" yaml:"label,omitempty"`
	ParentSize  int                        `json:"parent_size" yaml:"parent_size"`
	Fingerprint RunFingerprint             `json:"fingerprint" yaml:"fingerprint"`
	Result      *partition.BootstrapResult `json:"result" yaml:"result"`
	SeedCheck   []float64                  `json:"seed_check,omitempty" yaml:"seed_check,omitempty"`
	CreatedAt   core.Timestamp             `json:"created_at" yaml:"created_at"`
	Elapsed     string                     `json:"elapsed" yaml:"elapsed"`
}

// NewManifest builds a manifest for a finished run
func NewManifest(runID core.RunID, parent []float64, result *partition.BootstrapResult) *Manifest {
	fingerprint := NewRunFingerprint(
		core.ComputeDatasetHash(parent),
		result.SizeA, result.SizeB, result.Iterations, result.Seed, result.Workers,
	)
	return &Manifest{
		RunID:       runID,
		ParentSize:  len(parent),
		Fingerprint: fingerprint,
		Result:      result,
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if _, err := core.ParseRunID(string(m.RunID)); err != nil {
		return core.NewValidationError("run_manifest", err.Error())
	}
	if m.Result == nil {
		return core.NewValidationError("run_manifest", "result cannot be empty")
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return core.NewValidationError("run_manifest", "fingerprint cannot be empty")
	}
	if m.ParentSize < 2 {
		return core.NewValidationError("run_manifest", "parent_size must be at least 2")
	}
	return nil
}
