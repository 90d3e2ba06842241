package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	null := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	summary, err := Summarize(null)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, summary.Mean, 1e-12)
	assert.InDelta(t, 3.0277, summary.StdDev, 1e-4)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 10.0, summary.Max)
	assert.InDelta(t, 5.5, summary.Median, 1e-12)
	assert.GreaterOrEqual(t, summary.Percentile95, summary.Median)
	assert.GreaterOrEqual(t, summary.Percentile99, summary.Percentile95)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestHistogramSink_MarksObserved(t *testing.T) {
	var buf bytes.Buffer
	sink := NewHistogramSink(&buf, 5, 10)

	null := []float64{0.01, 0.02, 0.02, 0.03, 0.04, 0.05}
	original := append([]float64(nil), null...)
	require.NoError(t, sink.Emit(null, 0.10))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "6 random partitions")
	assert.Contains(t, lines[5], "<- observed")
	assert.Equal(t, 1, strings.Count(out, "<- observed"))
	assert.Equal(t, original, null)
}

func TestHistogramSink_DegenerateRange(t *testing.T) {
	var buf bytes.Buffer
	sink := NewHistogramSink(&buf, 0, 0)

	require.NoError(t, sink.Emit([]float64{0.2, 0.2}, 0.2))
	assert.Contains(t, buf.String(), "<- observed")

	buf.Reset()
	require.NoError(t, sink.Emit(nil, 0.2))
	assert.Contains(t, buf.String(), "empty")
}

func TestBinCounts(t *testing.T) {
	counts, edges := binCounts([]float64{0, 0, 1, 2, 3, 4}, 0.5, 4)

	assert.Equal(t, []float64{2, 1, 1, 2}, counts)
	require.Len(t, edges, 5)
	assert.Equal(t, 0.0, edges[0])
	assert.Equal(t, 2.0, edges[2])
	assert.Greater(t, edges[4], 4.0)

	// observed outside the null widens the range
	counts, edges = binCounts([]float64{1, 1, 1}, 3, 2)
	assert.Equal(t, []float64{3, 0}, counts)
	assert.Equal(t, 1.0, edges[0])

	counts, edges = binCounts([]float64{0.2, 0.2}, 0.2, 10)
	assert.Equal(t, []float64{2}, counts)
	assert.Len(t, edges, 2)
}
