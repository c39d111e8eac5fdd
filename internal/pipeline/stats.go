package pipeline

import (
	"sort"

	"github.com/theirongolddev/tripcost/internal/model"
)

// Describe computes mean, minimum, maximum and median of values.
// An empty input yields the all-zero statistics.
func Describe(values []float64) model.CostStats {
	if len(values) == 0 {
		return model.CostStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return model.CostStats{
		Average: sum / float64(n),
		Minimum: sorted[0],
		Maximum: sorted[n-1],
		Median:  median,
		Trips:   n,
	}
}
