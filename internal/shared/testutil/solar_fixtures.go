package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// SampleColumns is the header of the generated fixture files
var SampleColumns = []string{
	"Timestamp", "GHI", "DNI", "DHI", "ModA", "ModB", "Tamb", "RH", "WS", "WSgust",
	"WD", "BP", "Cleaning", "Precipitation", "TModA", "TModB", "Comments",
}

// SampleGHI holds the GHI readings written for each fixture file. Daytime
// means (GHI > 50) are Benin 300, Togo 220 and Sierra Leone 500/3.
var SampleGHI = map[string][]float64{
	"benin_clean.csv":       {0, 100, 300, 500},
	"sierraleone_clean.csv": {10, 60, 200, 240},
	"togo_clean.csv":        {0, 200, 220, 240},
}

// SampleStart is the timestamp of the first fixture row
var SampleStart = time.Date(2021, 8, 9, 0, 1, 0, 0, time.UTC)

// WriteCSV writes header and rows to dir/filename and returns the path
func WriteCSV(t *testing.T, dir, filename string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write fixture header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write fixture rows: %v", err)
	}
	return path
}

// SampleRows derives one measurement row per GHI value, one minute apart
func SampleRows(ghi []float64) [][]string {
	rows := make([][]string, 0, len(ghi))
	for i, g := range ghi {
		ts := SampleStart.Add(time.Duration(i) * time.Minute)
		values := []float64{
			g,               // GHI
			g * 0.8,         // DNI
			g * 0.3,         // DHI
			g * 0.95,        // ModA
			g * 0.9,         // ModB
			25 + float64(i), // Tamb
			80 - float64(i), // RH
			1.5,             // WS
			2.5,             // WSgust
			180,             // WD
			998,             // BP
			0,               // Cleaning
			0,               // Precipitation
			26 + float64(i), // TModA
			24 + float64(i), // TModB
		}
		row := []string{ts.Format("2006-01-02 15:04")}
		for _, v := range values {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, "")
		rows = append(rows, row)
	}
	return rows
}

// WriteSampleDataset writes the three cleaned country files into dir
func WriteSampleDataset(t *testing.T, dir string) {
	t.Helper()
	for filename, ghi := range SampleGHI {
		WriteCSV(t, dir, filename, SampleColumns, SampleRows(ghi))
	}
}
