// Package api contains the JSON API contracts of the solar dashboard.
// Version v1 represents the current stable API version.
package api

import (
	"moonlight/pkg/contracts/domain"
)

// Query parameters. Field tags name the query key and the validation rules
// applied by the transport layer.

// CountryMetricQuery selects one metric of one country
type CountryMetricQuery struct {
	Country string `json:"country" query:"country" validate:"required,country"`
	Metric  string `json:"metric" query:"metric" validate:"required,metric"`
}

// TimeSeriesQuery requests a downsampled metric series
type TimeSeriesQuery struct {
	CountryMetricQuery
	MaxPoints int `json:"max_points" query:"max_points" validate:"min=10,max=100000"`
}

// HistogramQuery requests a metric distribution
type HistogramQuery struct {
	CountryMetricQuery
	Bins int `json:"bins" query:"bins" validate:"min=1,max=500"`
}

// CompareQuery selects the metric compared across countries
type CompareQuery struct {
	Metric    string   `json:"metric" query:"metric" validate:"required,metric"`
	Countries []string `json:"countries,omitempty" query:"countries" validate:"omitempty,dive,country"`
}

// ExportRankingQuery selects the ranking download format
type ExportRankingQuery struct {
	Format string `json:"format" query:"format" validate:"required,oneof=csv xlsx"`
}

// Responses

// CountriesResponse lists the registry with file availability
type CountriesResponse struct {
	Countries []domain.CountryStatus `json:"countries"`
	Available int                    `json:"available"`
}

// ReloadResponse reports a cache invalidation
type ReloadResponse struct {
	Status    string   `json:"status"`
	Countries []string `json:"countries"`
	Rows      int      `json:"rows"`
	Clients   int      `json:"clients_notified"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	Runtime   interface{}       `json:"runtime,omitempty"`
	Timestamp string            `json:"timestamp"`
}
