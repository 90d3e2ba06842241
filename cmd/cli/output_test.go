package main

import (
	"bytes"
	"testing"

	"ksboot/domain/partition"
	"ksboot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	res := &partition.BootstrapResult{Percentile: 0.25, Iterations: 4, SizeA: 3, SizeB: 5, Null: []float64{0.1, 0.2}}

	var js bytes.Buffer
	require.NoError(t, writeOutput(&js, "json", res))
	assert.Contains(t, js.String(), `"percentile": 0.25`)
	assert.NotContains(t, js.String(), "null_distribution")

	var ym bytes.Buffer
	require.NoError(t, writeOutput(&ym, "yaml", res))
	assert.Contains(t, ym.String(), "percentile: 0.25")
	assert.Contains(t, ym.String(), "size_b: 5")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errors.InvalidInput("bad")))
	assert.Equal(t, 3, exitCode(errors.New(errors.CodeTimeout, "slow")))
	assert.Equal(t, 1, exitCode(assert.AnError))
}
