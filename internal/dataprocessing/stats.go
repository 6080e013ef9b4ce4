package dataprocessing

import (
	"errors"
	"math"
	"sort"

	"moonlight/pkg/contracts/domain"
)

var (
	// ErrMetricUnavailable is returned when a metric is absent from a frame
	// or holds no values
	ErrMetricUnavailable = errors.New("metric not available")
	// ErrInvalidBins is returned for a non-positive histogram bin count
	ErrInvalidBins = errors.New("bin count must be positive")
)

// finite returns the non-NaN values of xs
func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// sortedFinite returns the non-NaN values of xs in ascending order
func sortedFinite(xs []float64) []float64 {
	out := finite(xs)
	sort.Float64s(out)
	return out
}

// quantile computes q of sorted values with linear interpolation between
// closest ranks, the default used by pandas and numpy.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case n == 1:
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the standard deviation with ddof delta degrees of freedom
func stddev(xs []float64, ddof int) float64 {
	n := len(xs)
	if n-ddof <= 0 {
		return math.NaN()
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

// groupByCountry returns row indices per country in first-seen order
func groupByCountry(frame *domain.Frame) ([]string, map[string][]int) {
	order := frame.CountryNames()
	groups := make(map[string][]int, len(order))
	for i, c := range frame.Countries {
		groups[c] = append(groups[c], i)
	}
	return order, groups
}

func pick(col []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = col[j]
	}
	return out
}

// jsonSafe maps NaN to zero so summaries can be encoded
func jsonSafe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
