package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Partition errors
	ErrInvalidPartition  = errors.New("invalid partition")
	ErrDegenerateDataset = errors.New("degenerate dataset")
	ErrPartitionMismatch = fmt.Errorf("%w: sub-samples do not reconstruct parent", ErrInvalidPartition)

	// Execution errors
	ErrTimeout   = errors.New("bootstrap deadline exceeded")
	ErrStatistic = errors.New("statistic computation failed")

	// Determinism errors
	ErrSeedMismatch   = errors.New("seed mismatch")
	ErrReplayMismatch = errors.New("replay does not match manifest")
)

// Error constructors with context
func NewInvalidPartitionError(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPartition, fmt.Sprintf(reason, args...))
}

func NewDegenerateDatasetError(n int) error {
	return fmt.Errorf("%w: parent has %d observations, need at least 2", ErrDegenerateDataset, n)
}

func NewTimeoutError(completed, total int, cause error) error {
	return fmt.Errorf("%w after %d of %d iterations: %w", ErrTimeout, completed, total, cause)
}

func NewStatisticError(reason string) error {
	return fmt.Errorf("%w: %s", ErrStatistic, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsPartitionError(err error) bool {
	return errors.Is(err, ErrInvalidPartition) || errors.Is(err, ErrDegenerateDataset)
}

func NewReplayMismatchError(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReplayMismatch, fmt.Sprintf(reason, args...))
}

// IsReplayError reports a manifest that cannot be reproduced
func IsReplayError(err error) bool {
	return errors.Is(err, ErrReplayMismatch) || errors.Is(err, ErrSeedMismatch)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}
