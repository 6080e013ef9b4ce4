package domain

import (
	"time"
)

// BoxStats is the Tukey summary of one country's metric distribution
type BoxStats struct {
	Country      string    `json:"country"`
	Count        int       `json:"count"`
	Mean         float64   `json:"mean"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// BoxPlotResult is the cross-country comparison of a single metric
type BoxPlotResult struct {
	Metric string     `json:"metric"`
	Unit   string     `json:"unit"`
	Title  string     `json:"title"`
	YLabel string     `json:"y_label"`
	Boxes  []BoxStats `json:"boxes"`
}

// RankingEntry is one row of the daytime GHI ranking table
type RankingEntry struct {
	Rank       int     `json:"rank"`
	Country    string  `json:"country"`
	AverageGHI float64 `json:"average_ghi"`
	Display    string  `json:"display"`
	Samples    int     `json:"samples"`
	Highlight  bool    `json:"highlight"`
}

// Ranking ranks countries by average daytime GHI
type Ranking struct {
	Column    string         `json:"column"`
	Threshold float64        `json:"threshold"`
	Entries   []RankingEntry `json:"entries"`
	Message   string         `json:"message,omitempty"`
}

// Empty reports whether the ranking has no rows
func (r *Ranking) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// TimeSeriesPoint is one sample of a metric over time
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TimeSeries is a metric's evolution for one country
type TimeSeries struct {
	Country     string            `json:"country"`
	Metric      string            `json:"metric"`
	Unit        string            `json:"unit"`
	Title       string            `json:"title"`
	Points      []TimeSeriesPoint `json:"points"`
	TotalPoints int               `json:"total_points"`
	Downsampled bool              `json:"downsampled"`
}

// HistogramBin is a half-open interval [Lower, Upper) except for the last bin
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is the distribution of a metric for one country
type Histogram struct {
	Country string         `json:"country"`
	Metric  string         `json:"metric"`
	Unit    string         `json:"unit"`
	Title   string         `json:"title"`
	Bins    []HistogramBin `json:"bins"`
	Total   int            `json:"total"`
}

// ColumnSummary mirrors a describe() row plus the missing-value count
type ColumnSummary struct {
	Metric  string  `json:"metric"`
	Unit    string  `json:"unit"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	P25     float64 `json:"p25"`
	Median  float64 `json:"p50"`
	P75     float64 `json:"p75"`
	Max     float64 `json:"max"`
}

// Row is a single record rendered for display
type Row struct {
	Timestamp time.Time           `json:"timestamp"`
	Country   string              `json:"country"`
	Values    map[string]*float64 `json:"values"`
}

// Overview is the "Data Overview" section of the individual country page
type Overview struct {
	Country        string          `json:"country"`
	Rows           int             `json:"rows"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Columns        []string        `json:"columns"`
	MetricsPresent []string        `json:"metrics_present"`
	Head           []Row           `json:"head"`
	Summary        []ColumnSummary `json:"summary"`
}

// MetricSelection lists comparison metrics available and the default choice
type MetricSelection struct {
	Metrics []string `json:"metrics"`
	Default string   `json:"default"`
}

// CleaningReport counts changes made to one column by the cleaner
type CleaningReport struct {
	Column   string  `json:"column"`
	Outliers int     `json:"outliers"`
	Imputed  int     `json:"imputed"`
	Clipped  int     `json:"clipped"`
	Median   float64 `json:"median"`
}
