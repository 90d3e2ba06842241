package ports

import (
	"context"

	"ksboot/domain/partition"
)

// BootstrapPort runs the partition bootstrap test
type BootstrapPort interface {
	BootstrapTest(ctx context.Context, parent, subA, subB []float64) (float64, error)
	Run(ctx context.Context, req partition.BootstrapRequest) (*partition.BootstrapResult, error)
}
