package dataset

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moonlight/internal/shared/testutil"
)

func TestReadFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "benin_clean.csv", testutil.SampleColumns,
		testutil.SampleRows(testutil.SampleGHI["benin_clean.csv"]))

	frame, err := NewLoader(nil).ReadFile(context.Background(), path, "Benin")
	require.NoError(t, err)

	assert.Equal(t, 4, frame.Len())
	assert.NotContains(t, frame.Columns(), "Comments")
	assert.NotContains(t, frame.Columns(), "Timestamp")
	assert.Equal(t, "GHI", frame.Columns()[0])

	ghi, ok := frame.Column("GHI")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 100, 300, 500}, ghi)
	assert.Equal(t, testutil.SampleStart, frame.Timestamps[0])
	assert.Equal(t, []string{"Benin"}, frame.CountryNames())
}

func TestReadFileVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, ghi []float64, cols []string, ts []time.Time)
	}{
		{
			name:    "bom and seconds",
			content: "\ufeffTimestamp,GHI,Tamb\n2021-08-09 00:01:00,1.5,25\n",
			check: func(t *testing.T, ghi []float64, cols []string, ts []time.Time) {
				assert.Equal(t, []float64{1.5}, ghi)
				assert.Equal(t, time.Date(2021, 8, 9, 0, 1, 0, 0, time.UTC), ts[0])
			},
		},
		{
			name:    "missing values",
			content: "Timestamp,GHI,Tamb\n2021-08-09T00:01:00,,NaN\n2021-08-09T00:02:00,3,4\n",
			check: func(t *testing.T, ghi []float64, cols []string, ts []time.Time) {
				require.Len(t, ghi, 2)
				assert.True(t, math.IsNaN(ghi[0]))
				assert.Equal(t, 3.0, ghi[1])
			},
		},
		{
			name:    "infinite values stored as missing",
			content: "Timestamp,GHI\n2021-08-09 00:01,inf\n2021-08-09 00:02,-Inf\n2021-08-09 00:03,1e400\n2021-08-09 00:04,5\n",
			check: func(t *testing.T, ghi []float64, cols []string, ts []time.Time) {
				require.Len(t, ghi, 4)
				for _, v := range ghi[:3] {
					assert.True(t, math.IsNaN(v))
				}
				assert.Equal(t, 5.0, ghi[3])
			},
		},
		{
			name:    "extra numeric and text columns",
			content: "Timestamp,GHI,Sensor,Label\n2021-08-09 00:01,1,7,east\n2021-08-09 00:02,2,,west\n",
			check: func(t *testing.T, ghi []float64, cols []string, ts []time.Time) {
				assert.Equal(t, []string{"GHI", "Sensor"}, cols)
			},
		},
		{
			name:    "blank lines skipped",
			content: "Timestamp,GHI\n2021-08-09 00:01,1\n,\n2021-08-09 00:03,3\n",
			check: func(t *testing.T, ghi []float64, cols []string, ts []time.Time) {
				assert.Equal(t, []float64{1, 3}, ghi)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			frame, err := NewLoader(nil).ReadFile(context.Background(), path, "Togo")
			require.NoError(t, err)
			ghi, _ := frame.Column("GHI")
			tt.check(t, ghi, frame.Columns(), frame.Timestamps)
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"no timestamp column", "Time,GHI\n2021-08-09 00:01,1\n"},
		{"bad timestamp", "Timestamp,GHI\nyesterday,1\n"},
		{"bad known metric", "Timestamp,GHI\n2021-08-09 00:01,bright\n"},
		{"ragged row", "Timestamp,GHI\n2021-08-09 00:01,1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewLoader(nil).ReadFile(context.Background(), path, "Benin")
			assert.Error(t, err)
			assert.False(t, isTransient(err), "malformed files are not retried: %v", err)
		})
	}
}

func TestReadFileMissingIsNotRetried(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	_, err := NewLoader(logger).ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "Benin")

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, handler.ContainsMessage("retrying"))
}

func TestReadFileWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "togo_clean.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"Timestamp", "GHI", "Tamb", "Comments"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"2021-08-09 00:01", 120.5, 26, "ok"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]interface{}{"2021-08-09 00:02", 130, 27, ""}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	frame, err := NewLoader(nil).ReadFile(context.Background(), path, "Togo")
	require.NoError(t, err)

	assert.Equal(t, []string{"GHI", "Tamb"}, frame.Columns())
	ghi, _ := frame.Column("GHI")
	assert.Equal(t, []float64{120.5, 130}, ghi)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2021, 8, 9, 0, 1, 0, 0, time.UTC)

	for _, in := range []string{"2021-08-09 00:01:00", "2021-08-09T00:01:00", "2021-08-09 00:01", "2021-08-09T00:01:00Z"} {
		ts, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(ts), in)
	}

	ts, err := ParseTimestamp("44417")
	require.NoError(t, err)
	assert.Equal(t, 2021, ts.Year())

	_, err = ParseTimestamp("09/08/2021")
	assert.Error(t, err)
}

func TestReadFileHonoursCancellation(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "togo_clean.csv", testutil.SampleColumns,
		testutil.SampleRows([]float64{1, 2}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).ReadFile(ctx, path, "Togo")
	assert.ErrorIs(t, err, context.Canceled)
}
