package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"moonlight/internal/infrastructure"
)

// Options configures the upgrade handler. Zero values fall back to the
// package defaults.
type Options struct {
	// AllowedOrigins lists accepted Origin headers. An empty list only
	// accepts same-host origins; "*" accepts any.
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PingPeriod      time.Duration
	PongWait        time.Duration
}

// Handler upgrades /ws requests and registers the resulting clients
type Handler struct {
	hub      *Hub
	opts     Options
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates an upgrade handler
func NewHandler(hub *Hub, opts Options, logger *slog.Logger) *Handler {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = 1024
	}
	if opts.WriteBufferSize <= 0 {
		opts.WriteBufferSize = 1024
	}
	if opts.PongWait <= 0 {
		opts.PongWait = pongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = (opts.PongWait * 9) / 10
	}

	h := &Handler{
		hub:    hub,
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "websocket.handler"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err == nil && u.Host == r.Host {
		return true
	}

	h.logger.WarnContext(r.Context(), "websocket origin rejected",
		slog.String("origin", origin),
		slog.String("host", r.Host))
	return false
}

// ServeHTTP upgrades the connection and starts the client pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := infrastructure.EnsureTraceID(r.Context())
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	client := NewClient(h.hub, NewConnectionWrapper(conn), traceID, h.logger)
	client.pingPeriod = h.opts.PingPeriod
	client.pongWait = h.opts.PongWait
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
