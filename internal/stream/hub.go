// Package stream broadcasts window events to websocket subscribers.
// External tools (panels, pagers, debugging UIs) connect to /events
// and receive every manager event as a JSON message.
package stream

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/driftwm/driftwm/internal/wm"
)

const clientBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon binds to loopback; any local client may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan wm.Event
}

// Hub fans manager events out to connected websocket clients. Slow
// clients are disconnected rather than allowed to stall the daemon.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	log     *logrus.Logger
	server  *http.Server
}

// NewHub creates a hub with no clients.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Start listens on addr and serves the /events websocket endpoint.
func (h *Hub) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", h.handleEvents)

	h.server = &http.Server{Addr: addr, Handler: mux}

	ln, err := listen(addr)
	if err != nil {
		return err
	}

	h.log.WithField("addr", addr).Info("event stream listening")
	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			h.log.WithError(err).Error("event stream server stopped")
		}
	}()
	return nil
}

func (h *Hub) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan wm.Event, clientBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.WithField("client", c.id).Info("stream client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

// writeLoop pushes queued events to one client.
func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			h.drop(c, err)
			return
		}
	}
}

// readLoop discards inbound messages and detects disconnects.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c, err)
			return
		}
	}
}

func (h *Hub) drop(c *client, err error) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.log.WithField("client", c.id).WithError(err).Debug("stream client dropped")
	} else {
		h.log.WithField("client", c.id).Info("stream client disconnected")
	}
}

// Broadcast queues an event for every connected client. A client
// whose buffer is full is dropped.
func (h *Hub) Broadcast(ev wm.Event) {
	h.mu.Lock()
	var stale []*client
	for _, c := range h.clients {
		select {
		case c.send <- ev:
		default:
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range stale {
		c.conn.Close()
		h.log.WithField("client", c.id).Warn("stream client too slow, dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop closes the listener and disconnects all clients.
func (h *Hub) Stop() {
	if h.server != nil {
		h.server.Close()
	}

	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		c.conn.Close()
	}
	h.mu.Unlock()
}
