package http

import (
	"context"

	"moonlight/internal/services"
	apiv1 "moonlight/pkg/contracts/api/v1"
	"moonlight/pkg/contracts/domain"
)

// DataServiceInterface defines the data operations used by DataHandler
type DataServiceInterface interface {
	Countries(ctx context.Context) []domain.CountryStatus
	Overview(ctx context.Context, country string) (*domain.Overview, error)
	TimeSeries(ctx context.Context, country, metric string, maxPoints int) (*domain.TimeSeries, error)
	Histogram(ctx context.Context, country, metric string, bins int) (*domain.Histogram, error)
	Metrics(ctx context.Context) (domain.MetricSelection, error)
	Compare(ctx context.Context, metric string, countries ...string) (*domain.BoxPlotResult, error)
	Ranking(ctx context.Context) (*domain.Ranking, error)
	ExportRanking(ctx context.Context, format string) (*services.Export, error)
	ExportCombined(ctx context.Context) (*services.Export, error)
	Reload(ctx context.Context, reason string) (*services.ReloadResult, error)
	About() domain.About
}

// HealthServiceInterface defines the health operations used by HealthHandler
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) apiv1.HealthResponse
	ReadinessCheck(ctx context.Context) (apiv1.HealthResponse, bool)
	LivenessCheck(ctx context.Context) apiv1.HealthResponse
	Version() map[string]interface{}
}
