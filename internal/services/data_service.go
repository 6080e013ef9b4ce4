package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"moonlight/internal/config"
	"moonlight/internal/dataprocessing"
	"moonlight/internal/dataset"
	"moonlight/internal/exporter"
	"moonlight/internal/infrastructure"
	"moonlight/pkg/contracts"
	"moonlight/pkg/contracts/domain"
	"moonlight/pkg/contracts/events"
)

// Export formats
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

var contentTypes = map[string]string{
	FormatCSV:     "text/csv; charset=utf-8",
	FormatXLSX:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatParquet: "application/vnd.apache.parquet",
}

// Broadcaster publishes dataset events to connected dashboard clients
type Broadcaster interface {
	BroadcastDataUpdate(ctx context.Context, update events.DataUpdate) int
	ClientCount() int
}

// Export is a rendered download
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReloadResult summarizes a cache reload
type ReloadResult struct {
	Evicted   int            `json:"evicted"`
	Countries []string       `json:"countries"`
	Rows      map[string]int `json:"rows"`
	Clients   int            `json:"clients"`
}

// DataService answers the dashboard's data questions
type DataService struct {
	store       *dataset.Store
	cfg         config.DataConfig
	broadcaster Broadcaster
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger
}

// NewDataService creates a data service over store. broadcaster and metrics may be nil.
func NewDataService(store *dataset.Store, cfg config.DataConfig, broadcaster Broadcaster, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DataService {
	if cfg.DaytimeThreshold <= 0 {
		cfg.DaytimeThreshold = config.DefaultDaytimeThreshold
	}
	if cfg.HistogramBins <= 0 {
		cfg.HistogramBins = config.DefaultHistogramBins
	}
	if cfg.MaxSeriesPoints <= 0 {
		cfg.MaxSeriesPoints = config.DefaultMaxSeriesPoints
	}
	return &DataService{
		store:       store,
		cfg:         cfg,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      infrastructure.WithComponent(logger, "data_service"),
	}
}

// Countries returns the registry with availability flags
func (s *DataService) Countries(ctx context.Context) []domain.CountryStatus {
	return s.store.Status()
}

// loadCountry maps store failures onto service errors
func (s *DataService) loadCountry(ctx context.Context, name string) (domain.Country, *domain.Frame, error) {
	c, ok := s.store.Registry().Lookup(name)
	if !ok {
		return domain.Country{}, nil, fmt.Errorf("%q: %w", name, ErrUnknownCountry)
	}

	frame, err := s.store.LoadCountry(ctx, c.Name)
	switch {
	case errors.Is(err, dataset.ErrDataFileNotFound):
		return c, nil, fmt.Errorf("%s: %w", c.Name, ErrNoData)
	case ctx.Err() != nil:
		return c, nil, ctx.Err()
	case err != nil:
		return c, nil, fmt.Errorf("%s: %w: %v", c.Name, ErrDataCorrupted, err)
	case frame.Empty():
		return c, nil, fmt.Errorf("%s: %w", c.Name, ErrNoData)
	}
	return c, frame, nil
}

func (s *DataService) loadCombined(ctx context.Context) (*domain.Frame, error) {
	frame, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if frame.Empty() {
		return nil, ErrNoData
	}
	return frame, nil
}

// Overview returns the head, summary statistics and time span of one country
func (s *DataService) Overview(ctx context.Context, country string) (*domain.Overview, error) {
	ctx, span := otel.Tracer(infrastructure.MeterName).Start(ctx, "DataService.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("country", country))

	c, frame, err := s.loadCountry(ctx, country)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return dataprocessing.BuildOverview(c.Name, frame, dataprocessing.DefaultHeadRows), nil
}

// TimeSeries returns metric over time for one country. maxPoints of zero uses
// the configured limit.
func (s *DataService) TimeSeries(ctx context.Context, country, metric string, maxPoints int) (*domain.TimeSeries, error) {
	c, frame, err := s.loadCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	if maxPoints <= 0 {
		maxPoints = s.cfg.MaxSeriesPoints
	}

	ts, err := dataprocessing.TimeSeries(frame, metric, maxPoints)
	if err != nil {
		return nil, err
	}
	ts.Country = c.Name
	ts.Title = fmt.Sprintf("%s Time Series for %s", metric, c.Name)
	return ts, nil
}

// Histogram returns the distribution of metric for one country
func (s *DataService) Histogram(ctx context.Context, country, metric string, bins int) (*domain.Histogram, error) {
	c, frame, err := s.loadCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = s.cfg.HistogramBins
	}

	h, err := dataprocessing.Histogram(frame, metric, bins)
	if err != nil {
		return nil, err
	}
	h.Country = c.Name
	h.Title = fmt.Sprintf("%s Distribution for %s", displayName(metric), c.Name)
	return h, nil
}

func displayName(metric string) string {
	if metric == "Tamb" {
		return "Ambient Temperature"
	}
	return metric
}

// Metrics lists the comparison metrics available across all countries
func (s *DataService) Metrics(ctx context.Context) (domain.MetricSelection, error) {
	frame, err := s.loadCombined(ctx)
	if err != nil {
		return domain.MetricSelection{Metrics: []string{}}, err
	}
	return dataprocessing.SelectMetrics(frame), nil
}

// Compare returns the per-country box plot of metric
func (s *DataService) Compare(ctx context.Context, metric string, countries ...string) (*domain.BoxPlotResult, error) {
	ctx, span := otel.Tracer(infrastructure.MeterName).Start(ctx, "DataService.Compare")
	defer span.End()
	span.SetAttributes(attribute.String("metric", metric))

	var (
		frame *domain.Frame
		err   error
	)
	if len(countries) > 0 {
		for _, name := range countries {
			if _, ok := s.store.Registry().Lookup(name); !ok {
				return nil, fmt.Errorf("%q: %w", name, ErrUnknownCountry)
			}
		}
		frame, err = s.store.LoadAll(ctx, countries...)
		if err == nil && frame.Empty() {
			err = ErrNoData
		}
	} else {
		frame, err = s.loadCombined(ctx)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result, err := dataprocessing.BoxPlot(frame, metric)
	if err != nil {
		return nil, err
	}
	result.Title = fmt.Sprintf("%s Distribution by Country", metric)
	return result, nil
}

// Ranking ranks countries by average daytime GHI. An empty dataset yields
// an empty ranking rather than an error.
func (s *DataService) Ranking(ctx context.Context) (*domain.Ranking, error) {
	frame, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.GHIRanking(frame, s.cfg.DaytimeThreshold), nil
}

// ExportRanking renders the ranking as csv or xlsx
func (s *DataService) ExportRanking(ctx context.Context, format string) (*Export, error) {
	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%q: %w", format, ErrInvalidFormat)
	}

	ranking, err := s.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if format == FormatCSV {
		err = exporter.WriteRankingCSV(&buf, ranking)
	} else {
		err = exporter.WriteRankingXLSX(&buf, ranking)
	}
	if err != nil {
		return nil, fmt.Errorf("render ranking %s: %w", format, err)
	}

	s.metrics.RecordExport(ctx, "ranking", format, buf.Len())
	s.logger.InfoContext(ctx, "ranking exported",
		slog.String("format", format),
		slog.Int("entries", len(ranking.Entries)),
		slog.Int("bytes", buf.Len()),
	)
	return &Export{
		Filename:    "ghi_ranking." + format,
		ContentType: contentTypes[format],
		Data:        buf.Bytes(),
	}, nil
}

// ExportCombined renders the combined dataset as parquet
func (s *DataService) ExportCombined(ctx context.Context) (*Export, error) {
	frame, err := s.loadCombined(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n, err := exporter.WriteFrameParquet(&buf, frame)
	if err != nil {
		return nil, fmt.Errorf("render combined parquet: %w", err)
	}

	s.metrics.RecordExport(ctx, "combined", FormatParquet, int(n))
	s.logger.InfoContext(ctx, "combined dataset exported",
		slog.Int("rows", frame.Len()),
		slog.Int64("bytes", n),
	)
	return &Export{
		Filename:    "solar_combined.parquet",
		ContentType: contentTypes[FormatParquet],
		Data:        buf.Bytes(),
	}, nil
}

// Reload drops cached frames, reloads every country and notifies clients
func (s *DataService) Reload(ctx context.Context, reason string) (*ReloadResult, error) {
	evicted := s.store.Invalidate()

	frame, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}

	result := &ReloadResult{
		Evicted:   evicted,
		Countries: []string{},
		Rows:      make(map[string]int),
	}
	for _, c := range frame.Countries {
		if _, ok := result.Rows[c]; !ok {
			result.Countries = append(result.Countries, c)
		}
		result.Rows[c]++
	}

	if s.broadcaster != nil {
		if reason == "" {
			reason = "reload"
		}
		result.Clients = s.broadcaster.BroadcastDataUpdate(ctx, events.DataUpdate{
			Countries: result.Countries,
			Rows:      result.Rows,
			Reason:    reason,
		})
	}

	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.Int("evicted", evicted),
		slog.Any("countries", result.Countries),
		slog.Int("clients", result.Clients),
	)
	return result, nil
}

// About returns the static About page content
func (s *DataService) About() domain.About {
	return domain.About{
		Title:      config.AppName,
		Objective:  "To analyze solar irradiance and environmental data from Benin, Sierra Leone, and Togo to identify key trends and insights, supporting strategic decisions for solar investments.",
		DataSource: "Aggregated Solar Radiation Measurement Data.",
		Features: []string{
			"Cross-Country Comparison",
			"Individual Country EDA",
			"GHI Ranking",
		},
		Countries: s.store.Registry().Names(),
		Version:   contracts.Version,
	}
}
