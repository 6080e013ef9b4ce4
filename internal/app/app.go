package app

import (
	"context"
	goerrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric/noop"

	"moonlight/internal/config"
	"moonlight/internal/dataset"
	"moonlight/internal/errors"
	"moonlight/internal/infrastructure"
	customMiddleware "moonlight/internal/middleware"
	"moonlight/internal/services"
	handlers "moonlight/internal/transport/http"
	ws "moonlight/internal/websocket"
	"moonlight/pkg/contracts"
)

// runtimeSampleInterval is how often runtime gauges are refreshed
const runtimeSampleInterval = 15 * time.Second

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Runtime       *infrastructure.RuntimeCollector
	ErrorHandler  *errors.ErrorHandler
	FrontendFS    fs.FS // Embedded dashboard page and assets

	Store         *dataset.Store
	WebSocketHub  *ws.Hub
	DataService   *services.DataService
	HealthService *services.HealthService
}

// NewApplication loads configuration from the environment and builds the
// application with the process-wide logger
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	// Relative log files live next to the executable, not the working directory
	if !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	return New(cfg, paths, logger, infrastructure.DefaultOTelConfig(), frontendFS)
}

// New wires an application from already resolved configuration
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger, otelCfg *infrastructure.OTelConfig, frontendFS fs.FS) (*Application, error) {
	logger.Info("Ensuring required directories exist")
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  errors.NewErrorHandler(logger, cfg.Logging.Development),
		FrontendFS:    frontendFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	meter := a.OTelProviders.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(infrastructure.MeterName)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	collector, err := infrastructure.NewRuntimeCollector(a.OTelProviders.Meter, runtimeSampleInterval)
	if err != nil {
		return fmt.Errorf("failed to create runtime collector: %w", err)
	}
	a.Runtime = collector

	a.Store = dataset.NewStore(dataset.DefaultRegistry(), a.Paths, dataset.StoreOptions{
		CacheSize: a.Config.Data.CacheSize,
		CacheTTL:  a.Config.Data.CacheTTL,
		Metrics:   metrics,
		Logger:    a.Logger,
	})

	hub := ws.NewHub(a.Logger, metrics)
	hub.Start()
	a.WebSocketHub = hub

	a.DataService = services.NewDataService(a.Store, a.Config.Data, hub, metrics, a.Logger)
	a.HealthService = services.NewHealthService(a.Store, hub, collector, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that leaves the ResponseWriter unwrapped runs before /ws
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", ws.NewHandler(a.WebSocketHub, ws.Options{
		AllowedOrigins:  a.Config.Security.AllowedOrigins,
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		PingPeriod:      a.Config.WebSocket.PingPeriod,
		PongWait:        a.Config.WebSocket.PongWait,
	}, a.Logger))

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → CORS → RateLimit, then Timeout on /api
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	// Scraped outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, a.ErrorHandler)
		r.Mount("/data", dataHandler.Routes())
		r.Get("/about", dataHandler.GetAbout)

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger, a.ErrorHandler).Handle)
	})
}

// setupHTMLRoutes serves the embedded dashboard page and its assets
func (a *Application) setupHTMLRoutes(r chi.Router) {
	if a.FrontendFS == nil {
		a.Logger.Warn("Frontend filesystem not available, serving the API only")
		r.Get("/", http.RedirectHandler("/api/about", http.StatusTemporaryRedirect).ServeHTTP)
		return
	}

	dashboard, err := handlers.NewDashboardHandler(a.FrontendFS, a.Logger)
	if err != nil {
		a.Logger.Error("Failed to load dashboard page, serving the API only", slog.String("error", err.Error()))
		r.Get("/", http.RedirectHandler("/api/about", http.StatusTemporaryRedirect).ServeHTTP)
		return
	}

	r.Get("/", dashboard.ServePage)
	r.Route("/static", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Handle("/*", dashboard.Assets())
	})
}

// getCORSConfig returns the CORS policy for the API
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}

	local := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	cfg.AllowedOrigins = []string{local, fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port)}
	if a.Config.Security.EnableCORS {
		for _, origin := range a.Config.Security.AllowedOrigins {
			if origin != local {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	a.Logger.Info("CORS configured",
		slog.Any("allowed_origins", cfg.AllowedOrigins),
		slog.Bool("development", a.isDevelopmentMode()))
	return cfg
}

// isDevelopmentMode reports whether the dashboard runs from a source checkout
func (a *Application) isDevelopmentMode() bool {
	if a.Config.Logging.Development {
		return true
	}
	if env := os.Getenv(config.EnvPrefix + "_ENV"); env == "development" {
		return true
	}
	return os.Getenv("GO_ENV") == "development"
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the server and background work. A listen failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go a.Runtime.Start(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// performStartupCheck reports missing country files and warms the combined
// dataset cache
func (a *Application) performStartupCheck(ctx context.Context) error {
	var missing []string
	for _, st := range a.Store.Status() {
		if !st.Available {
			missing = append(missing, st.CleanFile)
			a.Logger.WarnContext(ctx, "Country data file not found",
				slog.String("country", st.Name),
				slog.Any("searched", a.Paths.DataFileCandidates(st.CleanFile)))
		}
	}

	frame, err := a.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm dataset cache: %w", err)
	}
	a.Logger.InfoContext(ctx, "Dataset cache warmed",
		slog.Int("rows", frame.Len()),
		slog.Any("countries", frame.CountryNames()))

	if len(missing) > 0 {
		return fmt.Errorf("%d of %d country files missing: %v", len(missing), len(a.Store.Status()), missing)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()
	a.Runtime.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.ErrorContext(ctx, "Server stopped unexpectedly")
		listenErr := fmt.Errorf("server failed to listen on %s", a.Server.Addr)
		if err := a.Stop(context.Background()); err != nil {
			return goerrors.Join(listenErr, err)
		}
		return listenErr
	}

	return a.Stop(context.Background())
}
