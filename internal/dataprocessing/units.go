package dataprocessing

import (
	"strings"

	"moonlight/pkg/contracts/domain"
)

// ComparisonMetrics are the metrics offered on the cross-country page, in
// display order
var ComparisonMetrics = []string{"GHI", "DNI", "DHI", "Tamb", "TModA", "TModB", "RH", "WS"}

// DefaultMetric is preselected when present
const DefaultMetric = "GHI"

// Unit returns the display unit of a measurement column. Temperatures are
// matched before irradiance so TModA is not labelled as an irradiance.
func Unit(metric string) string {
	switch {
	case metric == "":
		return ""
	case metric == "Tamb" || strings.HasPrefix(metric, "T"):
		return "°C"
	case metric == "GHI" || metric == "DNI" || metric == "DHI",
		strings.Contains(metric, "HI") || strings.Contains(metric, "Mod"):
		return "W/m²"
	case metric == "RH":
		return "%"
	case strings.HasPrefix(metric, "WS"):
		return "m/s"
	case strings.HasPrefix(metric, "WD"):
		return "°"
	case metric == "BP":
		return "hPa"
	case metric == "Precipitation":
		return "mm/min"
	default:
		return ""
	}
}

// Label returns "metric (unit)", or the bare metric when it has no unit
func Label(metric string) string {
	if u := Unit(metric); u != "" {
		return metric + " (" + u + ")"
	}
	return metric
}

// MetricsPresent returns the comparison metrics the frame carries
func MetricsPresent(frame *domain.Frame) []string {
	var out []string
	for _, m := range ComparisonMetrics {
		if frame.HasColumn(m) {
			out = append(out, m)
		}
	}
	return out
}

// SelectMetrics returns the available comparison metrics and the default
// choice: GHI when present, otherwise the first available one
func SelectMetrics(frame *domain.Frame) domain.MetricSelection {
	sel := domain.MetricSelection{Metrics: MetricsPresent(frame)}
	if sel.Metrics == nil {
		sel.Metrics = []string{}
	}
	for _, m := range sel.Metrics {
		if m == DefaultMetric {
			sel.Default = m
			return sel
		}
	}
	if len(sel.Metrics) > 0 {
		sel.Default = sel.Metrics[0]
	}
	return sel
}
