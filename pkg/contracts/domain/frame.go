package domain

import (
	"math"
	"time"
)

// Frame is a column-oriented table of solar measurements indexed by timestamp.
// Missing cells are stored as NaN.
type Frame struct {
	Timestamps []time.Time
	Countries  []string
	columns    []string
	values     map[string][]float64
}

// NewFrame creates an empty frame with the given column order
func NewFrame(columns ...string) *Frame {
	f := &Frame{values: make(map[string][]float64, len(columns))}
	for _, c := range columns {
		f.AddColumn(c)
	}
	return f
}

// AddColumn appends a column filled with NaN for existing rows. Adding an
// existing column is a no-op.
func (f *Frame) AddColumn(name string) {
	if f.values == nil {
		f.values = make(map[string][]float64)
	}
	if _, ok := f.values[name]; ok {
		return
	}
	col := make([]float64, len(f.Timestamps))
	for i := range col {
		col[i] = math.NaN()
	}
	f.columns = append(f.columns, name)
	f.values[name] = col
}

// AppendRow adds one row. Columns missing from values are stored as NaN.
func (f *Frame) AppendRow(ts time.Time, country string, values map[string]float64) {
	f.Timestamps = append(f.Timestamps, ts)
	f.Countries = append(f.Countries, country)
	for _, c := range f.columns {
		v, ok := values[c]
		if !ok {
			v = math.NaN()
		}
		f.values[c] = append(f.values[c], v)
	}
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Timestamps)
}

// Empty reports whether the frame has no rows
func (f *Frame) Empty() bool {
	return f.Len() == 0
}

// Columns returns the metric column names in order
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the frame carries the named metric
func (f *Frame) HasColumn(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Column returns the values of a metric. The slice is shared with the frame.
func (f *Frame) Column(name string) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[name]
	return v, ok
}

// Value returns the cell at row i for the named column, NaN if absent
func (f *Frame) Value(i int, name string) float64 {
	col, ok := f.Column(name)
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// SetCountry stamps every row with the given country
func (f *Frame) SetCountry(country string) {
	for i := range f.Countries {
		f.Countries[i] = country
	}
}

// CountryNames returns the distinct countries in first-seen order
func (f *Frame) CountryNames() []string {
	if f == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range f.Countries {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Slice returns a new frame with rows [from, to)
func (f *Frame) Slice(from, to int) *Frame {
	if from < 0 {
		from = 0
	}
	if to > f.Len() {
		to = f.Len()
	}
	out := NewFrame(f.columns...)
	for i := from; i < to; i++ {
		out.Timestamps = append(out.Timestamps, f.Timestamps[i])
		out.Countries = append(out.Countries, f.Countries[i])
		for _, c := range f.columns {
			out.values[c] = append(out.values[c], f.values[c][i])
		}
	}
	return out
}

// Concat stacks frames vertically keeping each row's timestamp. The column set
// is the ordered union of all inputs.
func Concat(frames ...*Frame) *Frame {
	out := NewFrame()
	for _, f := range frames {
		for _, c := range f.Columns() {
			out.AddColumn(c)
		}
	}
	for _, f := range frames {
		if f.Empty() {
			continue
		}
		n := f.Len()
		out.Timestamps = append(out.Timestamps, f.Timestamps...)
		out.Countries = append(out.Countries, f.Countries...)
		for _, c := range out.columns {
			if col, ok := f.values[c]; ok {
				out.values[c] = append(out.values[c], col...)
				continue
			}
			for i := 0; i < n; i++ {
				out.values[c] = append(out.values[c], math.NaN())
			}
		}
	}
	return out
}
