package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"moonlight/pkg/contracts/domain"
)

const (
	// RankingColumn labels the averaged value in the ranking table
	RankingColumn = "Average Daytime GHI (W/m²)"
	// DefaultDaytimeThreshold separates daytime readings from night noise
	DefaultDaytimeThreshold = 50.0
)

// GHIRanking ranks countries by mean GHI over daytime rows (GHI above
// threshold). Ties are broken by country name.
func GHIRanking(frame *domain.Frame, threshold float64) *domain.Ranking {
	ranking := &domain.Ranking{
		Column:    RankingColumn,
		Threshold: threshold,
		Entries:   []domain.RankingEntry{},
	}

	ghi, ok := frame.Column("GHI")
	if frame.Empty() || !ok {
		return ranking
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, v := range ghi {
		if math.IsNaN(v) || v <= threshold {
			continue
		}
		c := frame.Countries[i]
		sums[c] += v
		counts[c]++
	}

	if len(counts) == 0 {
		ranking.Message = fmt.Sprintf("No daytime GHI data (GHI > %g W/m^2) available for ranking.", threshold)
		return ranking
	}

	for country, n := range counts {
		avg := sums[country] / float64(n)
		ranking.Entries = append(ranking.Entries, domain.RankingEntry{
			Country:    country,
			AverageGHI: avg,
			Display:    fmt.Sprintf("%.2f", avg),
			Samples:    n,
		})
	}

	sort.Slice(ranking.Entries, func(i, j int) bool {
		a, b := ranking.Entries[i], ranking.Entries[j]
		if a.AverageGHI != b.AverageGHI {
			return a.AverageGHI > b.AverageGHI
		}
		return a.Country < b.Country
	})
	for i := range ranking.Entries {
		ranking.Entries[i].Rank = i + 1
	}
	ranking.Entries[0].Highlight = true

	return ranking
}
