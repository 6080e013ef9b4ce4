package dataprocessing

import (
	"math"

	"moonlight/pkg/contracts/domain"
)

// DefaultHeadRows is the number of rows shown in a data overview
const DefaultHeadRows = 5

// Describe summarizes every metric column like pandas describe() plus the
// missing-value count. Statistics of columns without values are reported as
// zero; std needs at least two values.
func Describe(frame *domain.Frame) []domain.ColumnSummary {
	out := make([]domain.ColumnSummary, 0, len(frame.Columns()))
	for _, name := range frame.Columns() {
		col, _ := frame.Column(name)
		values := sortedFinite(col)

		out = append(out, domain.ColumnSummary{
			Metric:  name,
			Unit:    Unit(name),
			Count:   len(values),
			Missing: len(col) - len(values),
			Mean:    jsonSafe(mean(values)),
			Std:     jsonSafe(stddev(values, 1)),
			Min:     jsonSafe(quantile(values, 0)),
			P25:     jsonSafe(quantile(values, 0.25)),
			Median:  jsonSafe(quantile(values, 0.5)),
			P75:     jsonSafe(quantile(values, 0.75)),
			Max:     jsonSafe(quantile(values, 1)),
		})
	}
	return out
}

// Head returns the first n rows. Missing cells are nil.
func Head(frame *domain.Frame, n int) []domain.Row {
	if n <= 0 {
		n = DefaultHeadRows
	}
	if n > frame.Len() {
		n = frame.Len()
	}

	cols := frame.Columns()
	rows := make([]domain.Row, 0, n)
	for i := 0; i < n; i++ {
		row := domain.Row{
			Timestamp: frame.Timestamps[i],
			Country:   frame.Countries[i],
			Values:    make(map[string]*float64, len(cols)),
		}
		for _, c := range cols {
			v := frame.Value(i, c)
			if math.IsNaN(v) {
				row.Values[c] = nil
				continue
			}
			row.Values[c] = &v
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildOverview assembles the data overview of a single-country frame
func BuildOverview(country string, frame *domain.Frame, headRows int) *domain.Overview {
	from, to := TimeSpan(frame)
	return &domain.Overview{
		Country:        country,
		Rows:           frame.Len(),
		From:           from,
		To:             to,
		Columns:        frame.Columns(),
		MetricsPresent: SelectMetrics(frame).Metrics,
		Head:           Head(frame, headRows),
		Summary:        Describe(frame),
	}
}
