package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonlight/pkg/contracts/domain"
)

func TestQuantileMatchesLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 2.5, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 3.25, quantile(sorted, 0.75), 1e-9)
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.9))
}

func TestUnit(t *testing.T) {
	tests := map[string]string{
		"GHI":           "W/m²",
		"DNI":           "W/m²",
		"DHI":           "W/m²",
		"ModB":          "W/m²",
		"ModA":          "W/m²",
		"Tamb":          "°C",
		"TModA":         "°C",
		"TModB":         "°C",
		"RH":            "%",
		"WS":            "m/s",
		"WSgust":        "m/s",
		"WD":            "°",
		"BP":            "hPa",
		"Precipitation": "mm/min",
		"Cleaning":      "",
	}
	for metric, want := range tests {
		assert.Equal(t, want, Unit(metric), metric)
	}
	assert.Equal(t, "GHI (W/m²)", Label("GHI"))
	assert.Equal(t, "Cleaning", Label("Cleaning"))
}

func TestSelectMetrics(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
		def     string
	}{
		{"all", []string{"Tamb", "GHI", "WS", "BP"}, []string{"GHI", "Tamb", "WS"}, "GHI"},
		{"no ghi", []string{"RH", "DNI"}, []string{"DNI", "RH"}, "DNI"},
		{"none", []string{"BP"}, []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectMetrics(domain.NewFrame(tt.columns...))
			assert.Equal(t, tt.want, sel.Metrics)
			assert.Equal(t, tt.def, sel.Default)
		})
	}
}

func TestBoxPlot(t *testing.T) {
	frame := frameOf("GHI", map[string][]float64{
		"Benin": {1, 2, 3, 4, nan},
		"Togo":  {10, 11, 12, 13, 14, 100},
	}, "Benin", "Togo")

	result, err := BoxPlot(frame, "GHI")
	require.NoError(t, err)
	assert.Equal(t, "GHI (W/m²)", result.YLabel)
	require.Len(t, result.Boxes, 2)

	benin := result.Boxes[0]
	assert.Equal(t, "Benin", benin.Country)
	assert.Equal(t, 4, benin.Count)
	assert.InDelta(t, 1.75, benin.Q1, 1e-9)
	assert.InDelta(t, 2.5, benin.Median, 1e-9)
	assert.InDelta(t, 3.25, benin.Q3, 1e-9)
	assert.Empty(t, benin.Outliers)

	togo := result.Boxes[1]
	assert.Equal(t, []float64{100}, togo.Outliers)
	assert.Equal(t, 14.0, togo.UpperWhisker)
	assert.Equal(t, 100.0, togo.Max)

	for _, box := range result.Boxes {
		values, _ := frame.Column("GHI")
		outliers := make(map[float64]bool)
		for _, o := range box.Outliers {
			outliers[o] = true
		}
		for i, v := range values {
			if frame.Countries[i] != box.Country || v != v {
				continue
			}
			inside := v >= box.LowerWhisker && v <= box.UpperWhisker
			assert.True(t, inside || outliers[v], "%s value %v", box.Country, v)
		}
	}
}

func TestBoxPlotUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		frame *domain.Frame
	}{
		{"empty frame", domain.NewFrame("GHI")},
		{"missing metric", frameOf("DNI", map[string][]float64{"Benin": {1}}, "Benin")},
		{"all missing", frameOf("GHI", map[string][]float64{"Benin": {nan, nan}}, "Benin")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BoxPlot(tt.frame, "GHI")
			assert.ErrorIs(t, err, ErrMetricUnavailable)
		})
	}
}

func TestGHIRanking(t *testing.T) {
	frame := frameOf("GHI", map[string][]float64{
		"Benin":        {0, 100, 300, 500},
		"Sierra Leone": {10, 60, 200, 240},
		"Togo":         {0, 200, 220, 240, nan},
	}, "Benin", "Sierra Leone", "Togo")

	ranking := GHIRanking(frame, 50)
	require.Len(t, ranking.Entries, 3)
	assert.Equal(t, RankingColumn, ranking.Column)
	assert.Empty(t, ranking.Message)

	want := []struct {
		country string
		display string
		samples int
	}{
		{"Benin", "300.00", 3},
		{"Togo", "220.00", 3},
		{"Sierra Leone", "166.67", 3},
	}
	for i, w := range want {
		e := ranking.Entries[i]
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, w.country, e.Country)
		assert.Equal(t, w.display, e.Display)
		assert.Equal(t, w.samples, e.Samples)
		assert.Equal(t, i == 0, e.Highlight)
		if i > 0 {
			assert.LessOrEqual(t, e.AverageGHI, ranking.Entries[i-1].AverageGHI)
		}
	}
}

func TestGHIRankingTiesAndThreshold(t *testing.T) {
	frame := frameOf("GHI", map[string][]float64{
		"Togo":  {50, 80},
		"Benin": {80, 50.0001},
	}, "Togo", "Benin")

	ranking := GHIRanking(frame, 50)
	require.Len(t, ranking.Entries, 2)
	// readings equal to the threshold are not daytime
	assert.Equal(t, "Togo", ranking.Entries[0].Country)
	assert.Equal(t, 1, ranking.Entries[0].Samples)
	assert.Equal(t, 2, ranking.Entries[1].Samples)

	tied := frameOf("GHI", map[string][]float64{"Togo": {90}, "Benin": {90}}, "Togo", "Benin")
	r := GHIRanking(tied, 50)
	assert.Equal(t, "Benin", r.Entries[0].Country)
	assert.Equal(t, "Togo", r.Entries[1].Country)
}

func TestGHIRankingEmpty(t *testing.T) {
	night := frameOf("GHI", map[string][]float64{"Benin": {0, 10, 50}}, "Benin")
	r := GHIRanking(night, 50)
	assert.True(t, r.Empty())
	assert.Equal(t, "No daytime GHI data (GHI > 50 W/m^2) available for ranking.", r.Message)

	noGHI := frameOf("DNI", map[string][]float64{"Benin": {100}}, "Benin")
	r = GHIRanking(noGHI, 50)
	assert.True(t, r.Empty())
	assert.Empty(t, r.Message)

	assert.True(t, GHIRanking(domain.NewFrame(), 50).Empty())
}

func TestTimeSeries(t *testing.T) {
	f := domain.NewFrame("GHI")
	f.AppendRow(t0.Add(2*time.Minute), "Benin", map[string]float64{"GHI": 3})
	f.AppendRow(t0, "Benin", map[string]float64{"GHI": 1})
	f.AppendRow(t0.Add(time.Minute), "Benin", map[string]float64{"GHI": nan})
	f.AppendRow(t0.Add(3*time.Minute), "Benin", map[string]float64{"GHI": 5})

	ts, err := TimeSeries(f, "GHI", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, ts.TotalPoints)
	assert.False(t, ts.Downsampled)
	require.Len(t, ts.Points, 3)
	assert.Equal(t, t0, ts.Points[0].Timestamp)
	assert.Equal(t, []float64{1, 3, 5}, []float64{ts.Points[0].Value, ts.Points[1].Value, ts.Points[2].Value})

	_, err = TimeSeries(f, "Tamb", 10)
	assert.ErrorIs(t, err, ErrMetricUnavailable)
}

func TestTimeSeriesDownsampling(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	f := frameOf("GHI", map[string][]float64{"Togo": values}, "Togo")

	ts, err := TimeSeries(f, "GHI", 10)
	require.NoError(t, err)
	assert.True(t, ts.Downsampled)
	assert.Equal(t, 100, ts.TotalPoints)
	require.Len(t, ts.Points, 10)
	assert.InDelta(t, 4.5, ts.Points[0].Value, 1e-9)
	assert.InDelta(t, 94.5, ts.Points[9].Value, 1e-9)
	for i := 1; i < len(ts.Points); i++ {
		assert.True(t, ts.Points[i].Timestamp.After(ts.Points[i-1].Timestamp))
	}
}

func TestHistogram(t *testing.T) {
	f := frameOf("Tamb", map[string][]float64{"Benin": {0, 1, 2, 3, 4, 5, 6, 7, 8, 10, nan}}, "Benin")

	h, err := Histogram(f, "Tamb", 5)
	require.NoError(t, err)
	assert.Equal(t, "°C", h.Unit)
	require.Len(t, h.Bins, 5)
	assert.Equal(t, 10, h.Total)

	counts := make([]int, 0, 5)
	sum := 0
	for _, b := range h.Bins {
		counts = append(counts, b.Count)
		sum += b.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 2}, counts)
	assert.Equal(t, h.Total, sum)
	assert.Equal(t, 10.0, h.Bins[4].Upper)
}

func TestHistogramEdgeCases(t *testing.T) {
	constant := frameOf("RH", map[string][]float64{"Togo": {7, 7, 7}}, "Togo")
	h, err := Histogram(constant, "RH", 50)
	require.NoError(t, err)
	require.Len(t, h.Bins, 1)
	assert.Equal(t, 3, h.Bins[0].Count)

	empty := frameOf("RH", map[string][]float64{"Togo": {nan}}, "Togo")
	h, err = Histogram(empty, "RH", 50)
	require.NoError(t, err)
	assert.Empty(t, h.Bins)

	extreme := frameOf("Tamb", map[string][]float64{"Benin": {-1e308, 0, 1e308}}, "Benin")
	h, err = Histogram(extreme, "Tamb", 10)
	require.NoError(t, err)
	require.Len(t, h.Bins, 10)
	assert.Equal(t, 1, h.Bins[0].Count)
	assert.Equal(t, 1, h.Bins[5].Count)
	assert.Equal(t, 1, h.Bins[9].Count)
	assert.Equal(t, 1e308, h.Bins[9].Upper)

	_, err = Histogram(constant, "RH", 0)
	assert.ErrorIs(t, err, ErrInvalidBins)
	_, err = Histogram(constant, "GHI", 10)
	assert.ErrorIs(t, err, ErrMetricUnavailable)
}

func TestDescribeAndHead(t *testing.T) {
	f := domain.NewFrame("GHI", "Tamb")
	f.AppendRow(t0, "Benin", map[string]float64{"GHI": 1, "Tamb": 20})
	f.AppendRow(t0.Add(time.Minute), "Benin", map[string]float64{"GHI": 2})
	f.AppendRow(t0.Add(2*time.Minute), "Benin", map[string]float64{"GHI": 3, "Tamb": nan})
	f.AppendRow(t0.Add(3*time.Minute), "Benin", map[string]float64{"GHI": 4})

	summary := Describe(f)
	require.Len(t, summary, 2)

	ghi := summary[0]
	assert.Equal(t, "GHI", ghi.Metric)
	assert.Equal(t, 4, ghi.Count)
	assert.Zero(t, ghi.Missing)
	assert.InDelta(t, 2.5, ghi.Mean, 1e-9)
	assert.InDelta(t, 1.2909944, ghi.Std, 1e-6)
	assert.InDelta(t, 1.75, ghi.P25, 1e-9)
	assert.Equal(t, 4.0, ghi.Max)

	tamb := summary[1]
	assert.Equal(t, 1, tamb.Count)
	assert.Equal(t, 3, tamb.Missing)
	assert.Zero(t, tamb.Std, "std of a single value is reported as zero")

	head := Head(f, 2)
	require.Len(t, head, 2)
	require.NotNil(t, head[0].Values["Tamb"])
	assert.Equal(t, 20.0, *head[0].Values["Tamb"])
	assert.Nil(t, head[1].Values["Tamb"])
	assert.Len(t, Head(f, 0), 4)

	overview := BuildOverview("Benin", f, 5)
	assert.Equal(t, 4, overview.Rows)
	assert.Equal(t, t0, overview.From)
	assert.Equal(t, t0.Add(3*time.Minute), overview.To)
	assert.Equal(t, []string{"GHI", "Tamb"}, overview.MetricsPresent)
}
