package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"moonlight/pkg/contracts/domain"
)

// CountryColumn is appended to exported frames
const CountryColumn = "Country"

// FrameHeader returns Timestamp, the metric columns in order, then Country
func FrameHeader(frame *domain.Frame) []string {
	cols := frame.Columns()
	header := make([]string, 0, len(cols)+2)
	header = append(header, "Timestamp")
	header = append(header, cols...)
	return append(header, CountryColumn)
}

// WriteFrameCSV streams a frame as CSV. Missing values are empty cells.
func WriteFrameCSV(w io.Writer, frame *domain.Frame, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(FrameHeader(frame)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	cols := frame.Columns()
	record := make([]string, len(cols)+2)
	for i := 0; i < frame.Len(); i++ {
		record[0] = formatTimestamp(frame.Timestamps[i])
		for j, c := range cols {
			record[j+1] = formatFloat(frame.Value(i, c))
		}
		record[len(record)-1] = frame.Countries[i]
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
