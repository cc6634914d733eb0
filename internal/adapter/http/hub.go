package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 16
)

// Snapshot is the full dashboard state.
type Snapshot struct {
	Theme      string                 `json:"theme"`
	Muted      bool                   `json:"muted"`
	Categories []monitor.CategoryView `json:"categories"`
	Clocks     []domain.ClockReading  `json:"clocks"`
}

// message is pushed to websocket clients on every refresh.
type message struct {
	Type     string          `json:"type"`
	Category domain.Category `json:"category,omitempty"`
	State    Snapshot        `json:"state"`
}

// Hub fans display refreshes out to connected dashboards.
// It implements pipeline.Display.
type Hub struct {
	state    *monitor.State
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	theme   string
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub reading from state.
func NewHub(state *monitor.State, logger *slog.Logger) *Hub {
	return &Hub{
		state:  state,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		theme:   domain.ThemeColor(state.AnyActive()),
		clients: make(map[*wsClient]struct{}),
	}
}

// Snapshot captures the current dashboard state.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	theme := h.theme
	h.mu.RUnlock()

	return Snapshot{
		Theme:      theme,
		Muted:      h.state.Muted(),
		Categories: h.state.Views(),
		Clocks:     domain.WorldClocks(domain.Now()),
	}
}

// Refresh pushes the state after category c changed.
func (h *Hub) Refresh(c domain.Category) {
	h.broadcast(message{Type: "refresh", Category: c})
}

// SetTheme records the window theme and pushes it when it changes.
func (h *Hub) SetTheme(color string) {
	h.mu.Lock()
	changed := h.theme != color
	h.theme = color
	h.mu.Unlock()

	if changed {
		h.broadcast(message{Type: "theme"})
	}
}

// NotifyMute pushes the state after the mute flag changed.
func (h *Hub) NotifyMute() {
	h.broadcast(message{Type: "mute"})
}

// Clients returns the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg message) {
	msg.State = h.Snapshot()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal dashboard message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client; it will catch up on the next message.
		}
	}
}

// HandleWS upgrades the request and streams dashboard messages until the
// client goes away. The current state is sent immediately on connect.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(message{Type: "snapshot", State: h.Snapshot()}); err == nil {
		c.send <- data
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("dashboard connected", "remote", r.RemoteAddr)

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	h.logger.Debug("dashboard disconnected", "remote", r.RemoteAddr)
}

// readPump drains client frames so pongs and close frames are processed.
func (c *wsClient) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
