package derive

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the descriptive statistics of a property's per-position scaling
// ratios. Nil fields mean "insufficient data" — a meaningful signal distinct
// from a factor of 1.0, and the store persists them as NULL.
type Stats struct {
	Mean   *float64
	Median *float64
	StdDev *float64
	Min    *float64
	Max    *float64
}

// Empty reports whether no statistics could be derived.
func (s Stats) Empty() bool {
	return s.Mean == nil
}

// newStats aggregates a non-empty ratio list. Standard deviation is the
// population deviation, zero when there are fewer than two samples.
func newStats(ratios []float64) Stats {
	mean := stat.Mean(ratios, nil)
	std := 0.0
	if len(ratios) > 1 {
		std = stat.PopStdDev(ratios, nil)
	}
	return Stats{
		Mean:   ptr(mean),
		Median: ptr(median(ratios)),
		StdDev: ptr(std),
		Min:    ptr(floats.Min(ratios)),
		Max:    ptr(floats.Max(ratios)),
	}
}

// median returns the middle value of the samples, averaging the two middle
// values for even-length input.
func median(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func ptr(v float64) *float64 { return &v }
