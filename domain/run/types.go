package run

import (
	"crypto/sha256"
	"fmt"

	"ksboot/domain/core"
)

// RunFingerprint ensures deterministic replay
type RunFingerprint struct {
	DatasetHash core.DatasetHash `json:"dataset_hash" yaml:"dataset_hash"`
	SizeA       int              `json:"size_a" yaml:"size_a"`
	SizeB       int              `json:"size_b" yaml:"size_b"`
	Iterations  int              `json:"iterations" yaml:"iterations"`
	Seed        uint64           `json:"seed" yaml:"seed"`
	Workers     int              `json:"workers" yaml:"workers"`
	Fingerprint core.Hash        `json:"fingerprint" yaml:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from the parameters that fix a result
func NewRunFingerprint(datasetHash core.DatasetHash, sizeA, sizeB, iterations int, seed uint64, workers int) RunFingerprint {
	return RunFingerprint{
		DatasetHash: datasetHash,
		SizeA:       sizeA,
		SizeB:       sizeB,
		Iterations:  iterations,
		Seed:        seed,
		Workers:     workers,
		Fingerprint: computeRunFingerprint(datasetHash, sizeA, sizeB, iterations, seed, workers),
	}
}

func computeRunFingerprint(datasetHash core.DatasetHash, sizeA, sizeB, iterations int, seed uint64, workers int) core.Hash {
	data := fmt.Sprintf("dataset:%s|a:%d|b:%d|iterations:%d|seed:%d|workers:%d",
		datasetHash, sizeA, sizeB, iterations, seed, workers)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
