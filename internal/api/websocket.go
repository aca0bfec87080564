package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/telemetry"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10
)

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages event-stream connections with DoS
// protection (register/unregister/broadcast channels, per-IP + total
// connection caps) retargeted from broadcasting game/stream state to
// tailing internal/eventbus.Bus (event log).
type WebSocketHub struct {
	bus     *eventbus.Bus
	origins []string

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter
	upgrader  websocket.Upgrader

	lastSeq uint64
}

// NewWebSocketHub builds a hub tailing bus, accepting connections whose
// Origin header matches origins (plus the always-allowed localhost
// prefixes — see IsAllowedOrigin).
func NewWebSocketHub(bus *eventbus.Bus, wsLimiter *WebSocketRateLimiter, origins []string) *WebSocketHub {
	h := &WebSocketHub{
		bus:        bus,
		origins:    origins,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  wsLimiter,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if IsAllowedOrigin(origin, h.origins) {
				return true
			}
			log.Printf("websocket: rejected connection from origin %q", origin)
			telemetry.RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run drives the register/unregister/broadcast loop. Call once, in its
// own goroutine, before serving traffic.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()
			telemetry.SetWSConnections(h.ClientCount())

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			telemetry.SetWSConnections(h.ClientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn, client := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.wsLimiter.Release(client.ip)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
			telemetry.SetWSConnections(h.ClientCount())
			telemetry.RecordWSMessage()
		}
	}
}

// Broadcast sends {event, data} JSON to every connected client,
// non-blocking under backpressure.
func (h *WebSocketHub) Broadcast(event string, data any) {
	msg, err := json.Marshal(map[string]any{"event": event, "data": data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartTailLoop polls h.bus for events newer than the last tail and
// broadcasts each as a "bus:event" message, at 100ms cadence
// (10 updates/sec — fine-grained enough for a spectator client, coarse
// enough not to dominate the broadcast channel).
func (h *WebSocketHub) StartTailLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	go func() {
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}
			events := h.bus.Since(h.lastSeq)
			if len(events) == 0 {
				continue
			}
			h.lastSeq = events[len(events)-1].Sequence
			for _, e := range events {
				h.Broadcast("bus:event", e)
			}
		}
	}()
}

// HandleWebSocket upgrades and registers one connection, enforcing the
// same total and per-IP connection caps fight-club-go checks before the
// handshake.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		telemetry.RecordConnectionRejected("ws_total_limit")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		telemetry.RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			// The event stream is read-only from the client's side; any
			// inbound frame is drained and discarded to keep the socket alive.
		}
	}()
}
