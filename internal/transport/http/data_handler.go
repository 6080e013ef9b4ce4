package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"moonlight/internal/config"
	apierrors "moonlight/internal/errors"
	appmiddleware "moonlight/internal/middleware"
	"moonlight/internal/services"
	apiv1 "moonlight/pkg/contracts/api/v1"
)

// DataHandler handles data-related HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service      DataServiceInterface
	validator    *appmiddleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		validator:    appmiddleware.NewRequestValidator(),
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/countries", h.GetCountries)
		r.Route("/countries/{country}", func(r chi.Router) {
			r.Use(h.CountryCtx)
			r.Get("/overview", h.GetOverview)
			r.Get("/timeseries", h.GetTimeSeries)
			r.Get("/histogram", h.GetHistogram)
		})

		r.Get("/compare/metrics", h.GetMetrics)
		r.Get("/compare/boxplot", h.GetBoxPlot)
		r.Get("/compare/ranking", h.GetRanking)

		r.Post("/reload", h.Reload)
	})

	r.Get("/export/ranking.{format}", h.ExportRanking)
	r.Get("/export/combined.parquet", h.ExportCombined)

	return r
}

// CountryCtx validates the country URL parameter
func (h *DataHandler) CountryCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		country := countryParam(r)
		if country == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("country", "country is required"))
			return
		}
		if len(country) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("country", "country must be a country name"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func countryParam(r *http.Request) string {
	raw := chi.URLParam(r, "country")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}

// handleServiceError maps service errors to API errors
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, subject, metric string) {
	h.logger.WarnContext(r.Context(), "data request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, services.ErrUnknownCountry):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("country %q", subject)))
	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.NoDataError(subject))
	case errors.Is(err, services.ErrMetricUnavailable):
		h.errorHandler.HandleError(w, r, apierrors.MetricUnavailableError(metric))
	case errors.Is(err, services.ErrInvalidFormat):
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(chi.URLParam(r, "format")))
	case errors.Is(err, services.ErrDataCorrupted):
		h.errorHandler.HandleError(w, r, apierrors.DataCorruptedError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetCountries handles GET /api/data/countries
func (h *DataHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.Countries(r.Context())

	resp := apiv1.CountriesResponse{Countries: statuses}
	for _, st := range statuses {
		if st.Available {
			resp.Available++
		}
	}
	render.JSON(w, r, resp)
}

// GetOverview handles GET /api/data/countries/{country}/overview
func (h *DataHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	country := countryParam(r)

	overview, err := h.service.Overview(r.Context(), country)
	if err != nil {
		h.handleServiceError(w, r, err, country, "")
		return
	}
	render.JSON(w, r, overview)
}

// GetTimeSeries handles GET /api/data/countries/{country}/timeseries
func (h *DataHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	maxPoints, err := appmiddleware.QueryInt(r, "max_points", config.DefaultMaxSeriesPoints)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := apiv1.TimeSeriesQuery{
		CountryMetricQuery: apiv1.CountryMetricQuery{
			Country: countryParam(r),
			Metric:  queryOr(r, "metric", "GHI"),
		},
		MaxPoints: maxPoints,
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	series, err := h.service.TimeSeries(r.Context(), q.Country, q.Metric, q.MaxPoints)
	if err != nil {
		h.handleServiceError(w, r, err, q.Country, q.Metric)
		return
	}
	render.JSON(w, r, series)
}

// GetHistogram handles GET /api/data/countries/{country}/histogram
func (h *DataHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	bins, err := appmiddleware.QueryInt(r, "bins", config.DefaultHistogramBins)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := apiv1.HistogramQuery{
		CountryMetricQuery: apiv1.CountryMetricQuery{
			Country: countryParam(r),
			Metric:  queryOr(r, "metric", "Tamb"),
		},
		Bins: bins,
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	hist, err := h.service.Histogram(r.Context(), q.Country, q.Metric, q.Bins)
	if err != nil {
		h.handleServiceError(w, r, err, q.Country, q.Metric)
		return
	}
	render.JSON(w, r, hist)
}

// GetMetrics handles GET /api/data/compare/metrics
func (h *DataHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	sel, err := h.service.Metrics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "any country", "")
		return
	}
	render.JSON(w, r, sel)
}

// GetBoxPlot handles GET /api/data/compare/boxplot
func (h *DataHandler) GetBoxPlot(w http.ResponseWriter, r *http.Request) {
	q := apiv1.CompareQuery{
		Metric:    queryOr(r, "metric", "GHI"),
		Countries: appmiddleware.QueryList(r, "countries"),
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Compare(r.Context(), q.Metric, q.Countries...)
	if err != nil {
		subject := "any country"
		if len(q.Countries) > 0 {
			subject = strings.Join(q.Countries, ", ")
		}
		h.handleServiceError(w, r, err, subject, q.Metric)
		return
	}
	render.JSON(w, r, result)
}

// GetRanking handles GET /api/data/compare/ranking
func (h *DataHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.Ranking(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "any country", "GHI")
		return
	}
	render.JSON(w, r, ranking)
}

// ExportRanking handles GET /api/data/export/ranking.{format}
func (h *DataHandler) ExportRanking(w http.ResponseWriter, r *http.Request) {
	q := apiv1.ExportRankingQuery{Format: strings.ToLower(chi.URLParam(r, "format"))}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(q.Format))
		return
	}

	export, err := h.service.ExportRanking(r.Context(), q.Format)
	if err != nil {
		h.handleServiceError(w, r, err, "any country", "GHI")
		return
	}
	h.writeExport(w, r, export)
}

// ExportCombined handles GET /api/data/export/combined.parquet
func (h *DataHandler) ExportCombined(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.ExportCombined(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "any country", "")
		return
	}
	h.writeExport(w, r, export)
}

func (h *DataHandler) writeExport(w http.ResponseWriter, r *http.Request, export *services.Export) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("file", export.Filename),
			slog.String("error", err.Error()),
		)
	}
}

// Reload handles POST /api/data/reload
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reload(r.Context(), queryOr(r, "reason", "api"))
	if err != nil {
		h.handleServiceError(w, r, err, "any country", "")
		return
	}

	rows := 0
	for _, n := range result.Rows {
		rows += n
	}
	render.JSON(w, r, apiv1.ReloadResponse{
		Status:    "reloaded",
		Countries: result.Countries,
		Rows:      rows,
		Clients:   result.Clients,
	})
}

// GetAbout handles GET /api/about
func (h *DataHandler) GetAbout(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.About())
}

func queryOr(r *http.Request, param, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(param)); v != "" {
		return v
	}
	return def
}
