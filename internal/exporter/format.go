package exporter

import (
	"math"
	"strconv"
	"time"
)

// TimestampLayout is the layout of the Timestamp column in written files
const TimestampLayout = "2006-01-02 15:04"

// utf8BOM lets Excel detect UTF-8 in CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// formatFloat writes the shortest exact representation; missing values are empty
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed2 formats with exactly 2 decimal places for display tables
func formatFixed2(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatTimestamp keeps seconds only when the reading has them
func formatTimestamp(ts time.Time) string {
	if ts.Second() != 0 {
		return ts.Format("2006-01-02 15:04:05")
	}
	return ts.Format(TimestampLayout)
}
