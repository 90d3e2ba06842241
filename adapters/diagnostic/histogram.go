package diagnostic

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramSink renders the null distribution as a text histogram with the
// bin holding the observed statistic marked.
type HistogramSink struct {
	w     io.Writer
	bins  int
	width int
	title string
}

// NewHistogramSink creates a sink writing to w
func NewHistogramSink(w io.Writer, bins, width int) *HistogramSink {
	if bins <= 0 {
		bins = 20
	}
	if width <= 0 {
		width = 50
	}
	return &HistogramSink{w: w, bins: bins, width: width, title: "KS statistic null distribution"}
}

// Emit writes the histogram. It only reads null.
func (h *HistogramSink) Emit(null []float64, observed float64) error {
	if len(null) == 0 {
		_, err := fmt.Fprintf(h.w, "%s: empty\n", h.title)
		return err
	}

	sorted := make([]float64, len(null))
	copy(sorted, null)
	sort.Float64s(sorted)

	counts, edges := binCounts(sorted, observed, h.bins)
	marked := floats.Within(edges, observed)
	peak := floats.Max(counts)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d random partitions, observed D=%.4f)\n", h.title, len(null), observed)
	for i, c := range counts {
		bar := 0
		if peak > 0 {
			bar = int(math.Round(c / peak * float64(h.width)))
		}
		fmt.Fprintf(&b, "[%.4f, %.4f) |%-*s %5d", edges[i], edges[i+1], h.width, strings.Repeat("#", bar), int(c))
		if i == marked {
			b.WriteString("  <- observed")
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(h.w, b.String())
	return err
}

// binCounts spreads sorted over equal-width bins spanning sorted and observed.
// The top divider is nudged past the maximum so it lands in the last bin.
func binCounts(sorted []float64, observed float64, bins int) ([]float64, []float64) {
	lo := math.Min(sorted[0], observed)
	hi := math.Max(sorted[len(sorted)-1], observed)
	if hi <= lo {
		bins = 1
	}

	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	return stat.Histogram(nil, edges, sorted, nil), edges
}
