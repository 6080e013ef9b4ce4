package http

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"moonlight/internal/config"
	"moonlight/pkg/contracts"
)

// PageData is passed to the dashboard template
type PageData struct {
	Title   string
	Vendor  string
	Version string
}

// DashboardHandler serves the embedded dashboard page and its assets
type DashboardHandler struct {
	assets fs.FS
	page   *template.Template
	logger *slog.Logger
}

// NewDashboardHandler parses index.html from frontendFS
func NewDashboardHandler(frontendFS fs.FS, logger *slog.Logger) (*DashboardHandler, error) {
	page, err := template.ParseFS(frontendFS, "index.html")
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{
		assets: frontendFS,
		page:   page,
		logger: logger.With(slog.String("handler", "dashboard")),
	}, nil
}

// ServePage handles GET /
func (h *DashboardHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	data := PageData{
		Title:   config.AppName,
		Vendor:  config.AppVendor,
		Version: contracts.Version,
	}
	if err := h.page.Execute(w, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard page", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// Assets serves the static files next to index.html under /static/
func (h *DashboardHandler) Assets() http.Handler {
	files := http.FileServer(http.FS(h.assets))
	return http.StripPrefix("/static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	}))
}
