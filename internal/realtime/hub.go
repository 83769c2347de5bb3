// Package realtime provides the optional bidirectional connection channel.
//
// Clients connect over a websocket. The channel defines no message
// semantics: inbound frames are read and discarded, and the only observable
// behavior is the connect/disconnect hooks.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vitormoschetta/secretai-gateway/internal/metrics"
)

const maxMessageSize = 64 << 10

// Hooks is the extension point invoked around a connection's lifetime.
type Hooks interface {
	OnConnect(ctx context.Context, conn Connection)
	OnDisconnect(ctx context.Context, conn Connection)
}

// LogHooks logs connect and disconnect events.
type LogHooks struct {
	Logger *slog.Logger
}

// OnConnect logs the new connection.
func (h LogHooks) OnConnect(ctx context.Context, conn Connection) {
	h.Logger.InfoContext(ctx, "client connected",
		"connection_id", conn.ID,
		"remote_addr", conn.RemoteAddr,
	)
}

// OnDisconnect logs the closed connection.
func (h LogHooks) OnDisconnect(ctx context.Context, conn Connection) {
	h.Logger.InfoContext(ctx, "client disconnected",
		"connection_id", conn.ID,
		"duration_ms", time.Since(conn.ConnectedAt).Milliseconds(),
	)
}

// Handler upgrades requests to websocket connections.
type Handler struct {
	upgrader websocket.Upgrader
	registry *Registry
	hooks    Hooks
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHandler creates the websocket endpoint. Upgrades from origins outside
// allowedOrigins are rejected.
func NewHandler(registry *Registry, hooks Hooks, m *metrics.Metrics, logger *slog.Logger, allowedOrigins []string) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		registry: registry,
		hooks:    hooks,
		metrics:  m,
		logger:   logger,
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// or the server closes it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	ctx := r.Context()
	conn := Connection{
		ID:          uuid.NewString(),
		RemoteAddr:  r.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.registry.Register(conn, ws)
	h.metrics.ConnectionOpened()
	h.hooks.OnConnect(ctx, conn)

	defer func() {
		h.registry.Unregister(conn.ID)
		h.metrics.ConnectionClosed()
		_ = ws.Close()
		h.hooks.OnDisconnect(ctx, conn)
	}()

	ws.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				h.logger.DebugContext(ctx, "connection closed unexpectedly", "connection_id", conn.ID, "error", err)
			}
			return
		}
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
