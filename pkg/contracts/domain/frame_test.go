package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2021, 8, 9, 6, 0, 0, 0, time.UTC)

func sampleFrame(country string, ghi ...float64) *Frame {
	f := NewFrame("GHI", "Tamb")
	for i, g := range ghi {
		f.AppendRow(start.Add(time.Duration(i)*time.Minute), country, map[string]float64{"GHI": g})
	}
	return f
}

func TestFrameAppendAndAccess(t *testing.T) {
	f := sampleFrame("Benin", 10, 20, 30)

	assert.Equal(t, 3, f.Len())
	assert.False(t, f.Empty())
	assert.Equal(t, []string{"GHI", "Tamb"}, f.Columns())
	assert.True(t, f.HasColumn("Tamb"))
	assert.False(t, f.HasColumn("DNI"))

	assert.Equal(t, 20.0, f.Value(1, "GHI"))
	assert.True(t, math.IsNaN(f.Value(1, "Tamb")), "missing cell should be NaN")
	assert.True(t, math.IsNaN(f.Value(5, "GHI")))
	assert.True(t, math.IsNaN(f.Value(0, "DNI")))
}

func TestFrameColumnsIsCopy(t *testing.T) {
	f := sampleFrame("Benin", 1)
	cols := f.Columns()
	cols[0] = "changed"
	assert.Equal(t, "GHI", f.Columns()[0])
}

func TestFrameAddColumnBackfillsNaN(t *testing.T) {
	f := sampleFrame("Togo", 1, 2)
	f.AddColumn("RH")
	f.AddColumn("GHI")

	assert.Equal(t, []string{"GHI", "Tamb", "RH"}, f.Columns())
	rh, ok := f.Column("RH")
	require.True(t, ok)
	require.Len(t, rh, 2)
	assert.True(t, math.IsNaN(rh[0]))
	assert.Equal(t, 1.0, f.Value(0, "GHI"))
}

func TestNilFrame(t *testing.T) {
	var f *Frame
	assert.Equal(t, 0, f.Len())
	assert.True(t, f.Empty())
	assert.Nil(t, f.Columns())
	assert.False(t, f.HasColumn("GHI"))
	assert.Nil(t, f.CountryNames())
	_, ok := f.Column("GHI")
	assert.False(t, ok)
}

func TestFrameSlice(t *testing.T) {
	f := sampleFrame("Benin", 10, 20, 30, 40)

	tests := []struct {
		name     string
		from, to int
		want     []float64
	}{
		{name: "middle", from: 1, to: 3, want: []float64{20, 30}},
		{name: "clamped", from: -2, to: 10, want: []float64{10, 20, 30, 40}},
		{name: "empty", from: 2, to: 2, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.Slice(tt.from, tt.to)
			col, _ := s.Column("GHI")
			if tt.want == nil {
				assert.Empty(t, col)
				return
			}
			assert.Equal(t, tt.want, col)
			assert.Len(t, s.Timestamps, len(tt.want))
		})
	}

	s := f.Slice(0, 1)
	col, _ := s.Column("GHI")
	col[0] = 99
	assert.Equal(t, 10.0, f.Value(0, "GHI"), "slice must not share storage")
}

func TestConcat(t *testing.T) {
	benin := sampleFrame("Benin", 1, 2)
	togo := NewFrame("GHI", "RH")
	togo.AppendRow(start, "Togo", map[string]float64{"GHI": 3, "RH": 70})

	out := Concat(benin, nil, NewFrame(), togo)

	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"GHI", "Tamb", "RH"}, out.Columns())
	assert.Equal(t, []string{"Benin", "Togo"}, out.CountryNames())
	assert.Equal(t, 3.0, out.Value(2, "GHI"))
	assert.True(t, math.IsNaN(out.Value(0, "RH")))
	assert.True(t, math.IsNaN(out.Value(2, "Tamb")))
	assert.Equal(t, 70.0, out.Value(2, "RH"))
}

func TestSetCountry(t *testing.T) {
	f := sampleFrame("", 1, 2)
	f.SetCountry("Sierra Leone")
	assert.Equal(t, []string{"Sierra Leone"}, f.CountryNames())
}
