package dataprocessing

import (
	"math"
	"time"

	"moonlight/pkg/contracts/domain"
)

var t0 = time.Date(2021, 8, 9, 6, 0, 0, 0, time.UTC)

// frameOf builds a frame with one metric column per entry in cols; each
// country contributes len(values) rows one minute apart
func frameOf(metric string, byCountry map[string][]float64, order ...string) *domain.Frame {
	f := domain.NewFrame(metric)
	for _, country := range order {
		for i, v := range byCountry[country] {
			f.AppendRow(t0.Add(time.Duration(i)*time.Minute), country, map[string]float64{metric: v})
		}
	}
	return f
}

var nan = math.NaN()
