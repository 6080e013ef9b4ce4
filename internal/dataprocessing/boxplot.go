package dataprocessing

import (
	"fmt"

	"moonlight/pkg/contracts/domain"
)

// BoxPlot summarizes the distribution of metric per country in the order
// countries appear in the frame. Whiskers extend to the most extreme values
// within 1.5 IQR of the quartiles; anything beyond is an outlier.
func BoxPlot(frame *domain.Frame, metric string) (*domain.BoxPlotResult, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("%s: %w", metric, ErrMetricUnavailable)
	}
	col, ok := frame.Column(metric)
	if !ok {
		return nil, fmt.Errorf("%s: %w", metric, ErrMetricUnavailable)
	}

	result := &domain.BoxPlotResult{
		Metric: metric,
		Unit:   Unit(metric),
		YLabel: Label(metric),
	}

	order, groups := groupByCountry(frame)
	for _, country := range order {
		values := sortedFinite(pick(col, groups[country]))
		if len(values) == 0 {
			continue
		}
		result.Boxes = append(result.Boxes, boxStats(country, values))
	}

	if len(result.Boxes) == 0 {
		return nil, fmt.Errorf("%s has no values: %w", metric, ErrMetricUnavailable)
	}
	return result, nil
}

// boxStats expects sorted, non-empty values
func boxStats(country string, sorted []float64) domain.BoxStats {
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lowFence := q1 - 1.5*iqr
	highFence := q3 + 1.5*iqr

	b := domain.BoxStats{
		Country:      country,
		Count:        len(sorted),
		Mean:         mean(sorted),
		Min:          sorted[0],
		Q1:           q1,
		Median:       quantile(sorted, 0.5),
		Q3:           q3,
		Max:          sorted[len(sorted)-1],
		LowerWhisker: q1,
		UpperWhisker: q3,
		Outliers:     []float64{},
	}

	lowSet, highSet := false, false
	for _, v := range sorted {
		switch {
		case v < lowFence || v > highFence:
			b.Outliers = append(b.Outliers, v)
		default:
			if !lowSet {
				b.LowerWhisker = v
				lowSet = true
			}
			b.UpperWhisker = v
			highSet = true
		}
	}
	if !highSet {
		b.LowerWhisker, b.UpperWhisker = q1, q3
	}
	return b
}
