// Package push broadcasts toast surface events to websocket subscribers.
// It is the server-side half of the companion app's push notification wiring.
package push

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moment-festival/momentd/internal/logging"
	"github.com/moment-festival/momentd/internal/toast"
)

const (
	// sendBuffer is the per-client outbound queue. Clients that cannot
	// drain it are considered dead and dropped.
	sendBuffer = 16

	writeWait = 10 * time.Second
)

// Hub fans surface events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
	}
}

// Attach subscribes the hub to a toast surface so every show/hide event is
// broadcast. The returned function detaches it.
func (h *Hub) Attach(surface *toast.Surface) func() {
	return surface.Subscribe(func(ev toast.Event) {
		h.Broadcast(ev)
	})
}

// Broadcast sends v as JSON to every connected client. Clients with a full
// send queue are dropped rather than blocking the caller.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Warn("push: marshal broadcast payload", "error", err)
		return
	}

	h.mu.Lock()
	var stale []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range stale {
		logging.Debug("push: dropping slow client")
		c.close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleConn registers a websocket connection and serves it until the peer
// disconnects. It blocks, so it is called from the HTTP handler goroutine.
func (h *Hub) HandleConn(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Close disconnects all clients and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// readPump discards inbound messages; the push channel is one-way. It
// returns when the peer closes the connection.
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}
