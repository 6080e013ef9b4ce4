package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"moonlight/internal/infrastructure"
	"moonlight/pkg/contracts"
	apiv1 "moonlight/pkg/contracts/api/v1"
	"moonlight/pkg/contracts/domain"
)

// Health states
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusNotReady  = "not_ready"
	StatusAlive     = "alive"
)

// DatasetStatus reports country file availability
type DatasetStatus interface {
	Status() []domain.CountryStatus
}

// HealthService handles health check operations
type HealthService struct {
	datasets    DatasetStatus
	broadcaster Broadcaster
	runtime     *infrastructure.RuntimeCollector
	version     string
	startTime   time.Time
	logger      *slog.Logger
}

// NewHealthService creates a new health service. broadcaster and collector may be nil.
func NewHealthService(datasets DatasetStatus, broadcaster Broadcaster, collector *infrastructure.RuntimeCollector, logger *slog.Logger) *HealthService {
	if collector == nil {
		collector, _ = infrastructure.NewRuntimeCollector(nil, 0)
	}
	return &HealthService{
		datasets:    datasets,
		broadcaster: broadcaster,
		runtime:     collector,
		version:     contracts.Version,
		startTime:   time.Now(),
		logger:      infrastructure.WithComponent(logger, "health_service"),
	}
}

func (s *HealthService) uptime() string {
	return time.Since(s.startTime).Round(time.Second).String()
}

// checks reports one entry per country plus the websocket hub. It returns
// how many countries have a readable file out of the total.
func (s *HealthService) checks() (map[string]string, int, int) {
	checks := make(map[string]string)
	available := 0
	statuses := s.datasets.Status()
	for _, st := range statuses {
		if st.Available {
			available++
			checks["dataset:"+st.Slug] = "ok"
		} else {
			checks["dataset:"+st.Slug] = "missing " + st.CleanFile
		}
	}
	if s.broadcaster != nil {
		checks["websocket"] = fmt.Sprintf("ok (%d clients)", s.broadcaster.ClientCount())
	}
	return checks, available, len(statuses)
}

// HealthCheck returns healthy when every country is loadable, degraded when
// some are, and unhealthy when none are
func (s *HealthService) HealthCheck(ctx context.Context) apiv1.HealthResponse {
	checks, available, total := s.checks()

	status := StatusHealthy
	switch {
	case available == 0:
		status = StatusUnhealthy
	case available < total:
		status = StatusDegraded
	}

	if status != StatusHealthy {
		s.logger.WarnContext(ctx, "health check not healthy",
			slog.String("status", status),
			slog.Int("available", available),
			slog.Int("total", total),
		)
	}

	return apiv1.HealthResponse{
		Status:    status,
		Version:   s.version,
		Uptime:    s.uptime(),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ReadinessCheck reports ready when at least one country file is readable
func (s *HealthService) ReadinessCheck(ctx context.Context) (apiv1.HealthResponse, bool) {
	checks, available, _ := s.checks()
	ready := available > 0

	status := StatusReady
	if !ready {
		status = StatusNotReady
		s.logger.WarnContext(ctx, "service not ready: no country data available")
	}
	return apiv1.HealthResponse{
		Status:    status,
		Version:   s.version,
		Uptime:    s.uptime(),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, ready
}

// LivenessCheck reports process statistics
func (s *HealthService) LivenessCheck(ctx context.Context) apiv1.HealthResponse {
	return apiv1.HealthResponse{
		Status:    StatusAlive,
		Version:   s.version,
		Uptime:    s.uptime(),
		Runtime:   s.runtime.Snapshot(ctx),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Version returns build information
func (s *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":     info.Version,
		"api_version": contracts.APIVersion,
		"data_format": contracts.DataFormatVersion,
		"build_time":  info.BuildTime,
		"git_commit":  info.GitCommit,
		"go_version":  runtime.Version(),
		"uptime":      s.uptime(),
	}
}
