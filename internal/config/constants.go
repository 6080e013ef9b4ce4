package config

import "time"

// Application constants
const (
	AppName    = "MoonLight Solar Analysis Dashboard"
	AppVersion = "1.0.0"
	AppVendor  = "MoonLight Energy Solutions"

	// Dataset defaults
	DefaultCacheSize        = 16
	DefaultCacheTTL         = 10 * time.Minute
	DefaultDaytimeThreshold = 50.0 // W/m²
	DefaultHistogramBins    = 50
	DefaultMaxSeriesPoints  = 5000
	DefaultZScoreThreshold  = 3.0

	// Request bounds
	MaxHistogramBins = 500
	MinSeriesPoints  = 10
	MaxSeriesPoints  = 100000
	OverviewHeadRows = 5

	// Directory names under the executable directory
	DataDirName    = "data"
	RawDirName     = "raw"
	ExportsDirName = "exports"
	LogsDirName    = "logs"
)
