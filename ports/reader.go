package ports

import "context"

// LabelledSample is a parent dataset plus the observed split of it
type LabelledSample struct {
	Source string
	Column string
	Label  string
	Parent []float64
	SubA   []float64
	SubB   []float64
}

// DatasetReaderPort loads a labelled sample from an external source
type DatasetReaderPort interface {
	ReadLabelled(ctx context.Context, valueColumn, groupColumn, groupLabel string) (*LabelledSample, error)
}
