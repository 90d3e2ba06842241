package ports

// StatisticPort computes a two-sample distance between scalar samples.
// Implementations must be safe for concurrent use and must not modify
// their arguments.
type StatisticPort interface {
	Distance(a, b []float64) (statistic float64, pValue float64, err error)
}
