package ports

// DiagnosticSink receives the null distribution and the observed statistic
// after a run completes. It is observational only; nothing it does feeds
// back into the result.
type DiagnosticSink interface {
	Emit(null []float64, observed float64) error
}

// DiagnosticSinkFunc adapts a plain function to DiagnosticSink
type DiagnosticSinkFunc func(null []float64, observed float64) error

func (f DiagnosticSinkFunc) Emit(null []float64, observed float64) error {
	return f(null, observed)
}
