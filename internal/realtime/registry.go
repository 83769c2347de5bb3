package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection identifies one open realtime client. It carries no
// application state.
type Connection struct {
	ID          string
	RemoteAddr  string
	ConnectedAt time.Time
}

type liveConn struct {
	Connection
	ws *websocket.Conn
}

// Registry tracks the currently open connections so they can be counted and
// closed on shutdown.
type Registry struct {
	conns map[string]*liveConn
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*liveConn),
	}
}

// Register adds an open connection.
func (r *Registry) Register(conn Connection, ws *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[conn.ID] = &liveConn{Connection: conn, ws: ws}
}

// Unregister removes a connection and reports whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; !exists {
		return false
	}
	delete(r.conns, id)
	return true
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// Connections returns a snapshot of the open connections.
func (r *Registry) Connections() []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c.Connection)
	}
	return out
}

// CloseAll sends a going-away close frame to every open connection and
// closes it. The read loops then observe the close and unregister
// themselves. It returns the number of connections closed.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c.ws)
	}
	r.mu.RUnlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	deadline := time.Now().Add(time.Second)
	for _, ws := range conns {
		_ = ws.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = ws.Close()
	}
	return len(conns)
}
