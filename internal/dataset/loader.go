package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-set/v2"
	"github.com/xuri/excelize/v2"

	"moonlight/pkg/contracts/domain"
)

const (
	// TimestampColumn is the index column of every measurement file
	TimestampColumn = "Timestamp"
	// CommentsColumn is free text and never parsed as a metric
	CommentsColumn = "Comments"
)

// KnownMetrics are the measurement columns parsed as numbers even when every
// cell is empty
var KnownMetrics = []string{
	"GHI", "DNI", "DHI", "ModA", "ModB", "Tamb", "RH", "WS", "WSgust", "WSstdev",
	"WD", "WDstdev", "BP", "Cleaning", "Precipitation", "TModA", "TModB",
}

var knownMetricSet = set.From(KnownMetrics)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseError describes a malformed measurement file
type ParseError struct {
	Path string
	Row  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Path, e.Row, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Loader parses measurement files into frames
type Loader struct {
	logger        *slog.Logger
	retryAttempts uint
	retryDelay    time.Duration
}

// NewLoader creates a loader. Opening a file is retried a few times since
// the cleaner may be replacing it while the dashboard reads.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:        logger,
		retryAttempts: 3,
		retryDelay:    50 * time.Millisecond,
	}
}

// ReadFile parses a .csv or .xlsx file and stamps every row with country
func (l *Loader) ReadFile(ctx context.Context, path, country string) (*domain.Frame, error) {
	records, err := l.readRecords(ctx, path)
	if err != nil {
		return nil, err
	}
	frame, err := buildFrame(ctx, path, country, records)
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "measurement file parsed",
		slog.String("path", path),
		slog.String("country", country),
		slog.Int("rows", frame.Len()),
		slog.Int("columns", len(frame.Columns())),
	)
	return frame, nil
}

func (l *Loader) readRecords(ctx context.Context, path string) ([][]string, error) {
	return retry.DoWithData(
		func() ([][]string, error) {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".xlsx", ".xlsm":
				return readWorkbook(path)
			default:
				return readCSV(path)
			}
		},
		retry.Attempts(l.retryAttempts),
		retry.Delay(l.retryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			l.logger.WarnContext(ctx, "retrying measurement file read",
				slog.String("path", path),
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()),
			)
		}),
	)
}

// isTransient reports whether a read error is worth retrying. Missing files
// and malformed content are not.
func isTransient(err error) bool {
	var parseErr *ParseError
	var csvErr *csv.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return false
	case errors.As(err, &parseErr), errors.As(err, &csvErr):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Path: path, Msg: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Path: path, Msg: err.Error()}
	}
	return rows, nil
}

// buildFrame converts raw records into a frame. The first record is the header.
func buildFrame(ctx context.Context, path, country string, records [][]string) (*domain.Frame, error) {
	if len(records) == 0 {
		return nil, &ParseError{Path: path, Msg: "file is empty"}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	tsIdx := -1
	for i, h := range header {
		if strings.EqualFold(h, TimestampColumn) {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return nil, &ParseError{Path: path, Msg: "missing Timestamp column"}
	}

	body := records[1:]
	metricIdx := numericColumns(header, tsIdx, body)

	names := make([]string, len(metricIdx))
	for i, idx := range metricIdx {
		names[i] = header[idx]
	}
	frame := domain.NewFrame(names...)

	row := make(map[string]float64, len(metricIdx))
	for n, rec := range body {
		if n%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(rec) {
			continue
		}
		line := n + 2

		if tsIdx >= len(rec) {
			return nil, &ParseError{Path: path, Row: line, Msg: "missing timestamp"}
		}
		ts, err := ParseTimestamp(rec[tsIdx])
		if err != nil {
			return nil, &ParseError{Path: path, Row: line, Msg: err.Error()}
		}

		for _, idx := range metricIdx {
			cell := ""
			if idx < len(rec) {
				cell = rec[idx]
			}
			v, ok := parseNumber(cell)
			if !ok {
				return nil, &ParseError{Path: path, Row: line, Msg: fmt.Sprintf("column %s: invalid number %q", header[idx], cell)}
			}
			row[header[idx]] = v
		}
		frame.AppendRow(ts, country, row)
	}
	return frame, nil
}

// numericColumns picks the metric columns: known metrics always, other
// columns only when every non-empty cell parses as a number.
func numericColumns(header []string, tsIdx int, body [][]string) []int {
	var out []int
	for i, name := range header {
		if i == tsIdx || name == "" || strings.EqualFold(name, CommentsColumn) {
			continue
		}
		if knownMetricSet.Contains(name) {
			out = append(out, i)
			continue
		}

		numeric, seen := true, false
		for _, rec := range body {
			if i >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			seen = true
			if _, ok := parseNumber(cell); !ok {
				numeric = false
				break
			}
		}
		if numeric && seen {
			out = append(out, i)
		}
	}
	return out
}

// ParseTimestamp accepts the layouts found in the measurement exports and
// Excel serial dates
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// parseNumber returns NaN for empty and NaN cells
func parseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "null":
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if math.IsInf(v, 0) {
		// "inf" and out-of-range literals are stored as missing
		return math.NaN(), true
	}
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
