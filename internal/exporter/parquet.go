package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"moonlight/pkg/contracts/domain"
)

// parquetParallelism is the number of goroutines used to encode row groups
const parquetParallelism = 4

// ParquetSchema builds the JSON schema for a frame: timestamp in
// milliseconds, one optional DOUBLE per metric, and the country name
func ParquetSchema(frame *domain.Frame) string {
	fields := make([]map[string]string, 0, len(frame.Columns())+2)
	fields = append(fields, map[string]string{
		"Tag": "name=Timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=REQUIRED",
	})
	for _, c := range frame.Columns() {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", c),
		})
	}
	fields = append(fields, map[string]string{
		"Tag": "name=" + CountryColumn + ", type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED",
	})

	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

// WriteFrameParquet writes a frame as SNAPPY-compressed Parquet and returns
// the number of bytes written
func WriteFrameParquet(w io.Writer, frame *domain.Frame) (int64, error) {
	cw := &countingWriter{w: w}
	pfw := writerfile.NewWriterFile(cw)

	pw, err := writer.NewJSONWriter(ParquetSchema(frame), pfw, parquetParallelism)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	cols := frame.Columns()
	row := make(map[string]any, len(cols)+2)
	for i := 0; i < frame.Len(); i++ {
		row["Timestamp"] = frame.Timestamps[i].UnixMilli()
		for _, c := range cols {
			v := frame.Value(i, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[c] = nil
				continue
			}
			row[c] = v
		}
		row[CountryColumn] = frame.Countries[i]

		b, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return cw.n, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if err := pw.Write(string(b)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return cw.n, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return cw.n, fmt.Errorf("failed to finish parquet file: %w", err)
	}
	if err := pfw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to close parquet file: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
