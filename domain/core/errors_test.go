package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		partition bool
		timeout   bool
	}{
		{"invalid partition", NewInvalidPartitionError("k=%d exceeds n=%d", 5, 3), ErrInvalidPartition, true, false},
		{"degenerate dataset", NewDegenerateDatasetError(0), ErrDegenerateDataset, true, false},
		{"mismatch is a partition error", ErrPartitionMismatch, ErrInvalidPartition, true, false},
		{"timeout", NewTimeoutError(10, 100, context.DeadlineExceeded), ErrTimeout, false, true},
		{"statistic", NewStatisticError("empty sample"), ErrStatistic, false, false},
		{"replay", NewReplayMismatchError("percentile %v != %v", 0.5, 0.6), ErrReplayMismatch, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("expected %v to match %v", tt.err, tt.target)
			}
			if IsPartitionError(tt.err) != tt.partition {
				t.Errorf("IsPartitionError(%v) = %v", tt.err, !tt.partition)
			}
			if IsTimeoutError(tt.err) != tt.timeout {
				t.Errorf("IsTimeoutError(%v) = %v", tt.err, !tt.timeout)
			}
		})
	}
}

func TestIsReplayError(t *testing.T) {
	if !IsReplayError(fmt.Errorf("wrapped: %w", ErrSeedMismatch)) {
		t.Error("seed mismatch should be a replay error")
	}
	if !IsReplayError(NewReplayMismatchError("dataset hash differs")) {
		t.Error("replay mismatch should be a replay error")
	}
	if IsReplayError(ErrTimeout) {
		t.Error("timeout is not a replay error")
	}
}
