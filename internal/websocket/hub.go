package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"moonlight/internal/infrastructure"
	"moonlight/pkg/contracts"
	"moonlight/pkg/contracts/events"
)

const broadcastBuffer = 16

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	count   int
	running bool
	quit    chan struct{}
	done    chan struct{}

	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		metrics:    metrics,
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			h.metrics.RecordWebSocketClients(context.Background(), 1)

			ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
			h.logger.InfoContext(ctx, "client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)),
			)

			connect := h.envelope(ctx, events.MessageTypeConnect, events.ConnectInfo{
				ClientID: client.id,
				Version:  contracts.Version,
			})
			if connect != nil {
				select {
				case client.send <- connect:
				default:
					h.logger.WarnContext(ctx, "client buffer full, connect message dropped",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)),
				)
			}

		case message := <-h.broadcast:
			failed := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					failed++
					h.drop(client)
					h.logger.Warn("client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
			h.logger.Debug("message broadcast",
				slog.Int("clients", len(h.clients)),
				slog.Int("failed", failed),
				slog.Int("bytes", len(message)),
			)
		}
	}
}

// drop removes client and closes its send buffer. Only called from run.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
	h.metrics.RecordWebSocketClients(context.Background(), -1)
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// envelope marshals a typed message, stamping the request trace ID when present
func (h *Hub) envelope(ctx context.Context, msgType events.MessageType, data interface{}) []byte {
	msg := events.WebSocketMessage{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
		Data:      data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal message",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
		return nil
	}
	return payload
}

// Broadcast queues a typed message for every connected client. It returns
// false when the hub is stopped or its queue is full.
func (h *Hub) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) bool {
	payload := h.envelope(ctx, msgType, data)
	if payload == nil {
		return false
	}

	select {
	case <-h.quit:
		return false
	default:
	}

	select {
	case h.broadcast <- payload:
		return true
	default:
		h.logger.WarnContext(ctx, "broadcast queue full, message dropped",
			slog.String("type", string(msgType)))
		return false
	}
}

// BroadcastDataUpdate notifies clients that the dataset was reloaded and
// returns how many clients were connected when it was queued
func (h *Hub) BroadcastDataUpdate(ctx context.Context, update events.DataUpdate) int {
	if !h.Broadcast(ctx, events.MessageTypeDataUpdate, update) {
		return 0
	}
	return h.ClientCount()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		client.conn.Close()
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Stop closes every client and ends the hub loop
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}
