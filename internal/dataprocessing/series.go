package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"moonlight/pkg/contracts/domain"
)

// TimeSeries returns the non-missing values of metric in timestamp order.
// When more than maxPoints remain, consecutive samples are averaged into
// maxPoints buckets. A maxPoints of zero or less disables downsampling.
func TimeSeries(frame *domain.Frame, metric string, maxPoints int) (*domain.TimeSeries, error) {
	col, ok := frame.Column(metric)
	if !ok {
		return nil, fmt.Errorf("%s: %w", metric, ErrMetricUnavailable)
	}

	points := make([]domain.TimeSeriesPoint, 0, len(col))
	for i, v := range col {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, domain.TimeSeriesPoint{Timestamp: frame.Timestamps[i], Value: v})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	ts := &domain.TimeSeries{
		Metric:      metric,
		Unit:        Unit(metric),
		TotalPoints: len(points),
		Points:      points,
	}
	if maxPoints > 0 && len(points) > maxPoints {
		ts.Points = bucketMean(points, maxPoints)
		ts.Downsampled = true
	}
	return ts, nil
}

// bucketMean averages points into at most n contiguous buckets. Each bucket
// is stamped with the midpoint of its first and last timestamps.
func bucketMean(points []domain.TimeSeriesPoint, n int) []domain.TimeSeriesPoint {
	size := int(math.Ceil(float64(len(points)) / float64(n)))
	out := make([]domain.TimeSeriesPoint, 0, n)
	for start := 0; start < len(points); start += size {
		end := start + size
		if end > len(points) {
			end = len(points)
		}
		var sum float64
		for _, p := range points[start:end] {
			sum += p.Value
		}
		first, last := points[start].Timestamp, points[end-1].Timestamp
		out = append(out, domain.TimeSeriesPoint{
			Timestamp: first.Add(last.Sub(first) / 2),
			Value:     sum / float64(end-start),
		})
	}
	return out
}

// Histogram counts metric values into bins of equal width over [min, max].
// Every bin is half-open except the last, which also holds max. A constant
// series produces one bin.
func Histogram(frame *domain.Frame, metric string, bins int) (*domain.Histogram, error) {
	if bins < 1 {
		return nil, ErrInvalidBins
	}
	col, ok := frame.Column(metric)
	if !ok {
		return nil, fmt.Errorf("%s: %w", metric, ErrMetricUnavailable)
	}

	values := finite(col)
	h := &domain.Histogram{
		Metric: metric,
		Unit:   Unit(metric),
		Total:  len(values),
		Bins:   []domain.HistogramBin{},
	}
	if len(values) == 0 {
		return h, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		h.Bins = append(h.Bins, domain.HistogramBin{Lower: lo, Upper: hi, Count: len(values)})
		return h, nil
	}

	// hi/bins - lo/bins stays finite when hi-lo would overflow
	width := hi/float64(bins) - lo/float64(bins)
	h.Bins = make([]domain.HistogramBin, bins)
	for i := range h.Bins {
		h.Bins[i].Lower = lo + float64(i)*width
		h.Bins[i].Upper = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Upper = hi

	for _, v := range values {
		pos := v/width - lo/width
		idx := bins - 1
		if pos < float64(bins) {
			idx = int(pos)
		}
		if idx < 0 {
			idx = 0
		}
		h.Bins[idx].Count++
	}
	return h, nil
}

// TimeSpan returns the earliest and latest timestamps of the frame
func TimeSpan(frame *domain.Frame) (time.Time, time.Time) {
	var from, to time.Time
	for i, ts := range frame.Timestamps {
		if i == 0 || ts.Before(from) {
			from = ts
		}
		if i == 0 || ts.After(to) {
			to = ts
		}
	}
	return from, to
}
