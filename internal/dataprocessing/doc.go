// Package dataprocessing computes the dashboard's statistics over solar
// measurement frames.
//
// All functions are pure: they take a *domain.Frame and return result
// contracts from pkg/contracts/domain without touching files or caches.
//
// # Components
//
//  1. Describe, Head and BuildOverview: per-column summary statistics and a
//     row preview for the overview page
//  2. BoxPlot: Tukey five-number summaries per country for one metric
//  3. TimeSeries and Histogram: chart data, downsampled to a point budget
//  4. GHIRanking: countries ordered by mean daytime GHI
//  5. Cleaner: z-score outlier flagging, negative irradiance clipping and
//     median imputation, used by cmd/cleaner
//
// Missing values are NaN throughout and are skipped by every statistic.
//
// # Usage
//
//	ranking := dataprocessing.GHIRanking(frame, dataprocessing.DefaultDaytimeThreshold)
//	for _, e := range ranking.Entries {
//	    fmt.Printf("%d. %s %s\n", e.Rank, e.Country, e.Display)
//	}
//
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.CleanerOptions{})
//	cleaned, reports, err := cleaner.Clean(ctx, raw)
package dataprocessing
