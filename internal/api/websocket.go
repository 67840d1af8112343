package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"wallbreaker/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// MaxWSMessageSize caps inbound frames; net messages are the largest
	MaxWSMessageSize = MaxNetBody

	wsWriteTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if IsAllowedOrigin(origin) {
			return true
		}

		// Log rejected origin for security monitoring
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// localOriginHosts are the hosts a browser client may connect from.
var localOriginHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// IsAllowedOrigin checks if an origin may open a WebSocket. An empty origin
// means a non-browser client, which cannot be the victim of a cross-site
// request and is allowed.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return localOriginHosts[u.Hostname()]
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// wsCommand is an inbound client frame.
type wsCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebSocketHub fans out snapshots and sound cues to clients and feeds
// their input back into the engine
type WebSocketHub struct {
	engine     EngineInterface
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	stopChan   chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	// Set when a client joins so the next state carries the tile map
	needGrid atomic.Bool

	// Connection limiting per IP
	wsLimiter *WebSocketRateLimiter

	// Per-connection command budget, sized from the tick rate
	commandBudget RateLimitConfig
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub(engine EngineInterface) *WebSocketHub {
	return &WebSocketHub{
		engine:     engine,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),

		commandBudget: ControlRateLimitConfig(engine.Stats().TickRate),
	}
}

// Run owns every connection write. It returns after Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.wsLimiter.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			h.needGrid.Store(true)
			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				// Release the connection slot for this IP
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			var failed []*websocket.Conn

			h.mu.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
				}
			}
			h.mu.RUnlock()

			if len(failed) > 0 {
				h.mu.Lock()
				for _, conn := range failed {
					if client, ok := h.clients[conn]; ok {
						h.wsLimiter.Release(client.ip)
						delete(h.clients, conn)
					}
					conn.Close()
				}
				count := len(h.clients)
				h.mu.Unlock()
				UpdateWSConnections(count)
			}
			IncrementWSMessages()
		}
	}
}

// Stop closes every connection and ends Run.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// BroadcastSound forwards one audio cue. Used as the engine's sound callback.
func (h *WebSocketHub) BroadcastSound(s game.Sound) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast("game:sound", s)
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop broadcasts the latest snapshot at the given interval.
// Unchanged snapshots are skipped and the tile map is only resent when it
// changed or a client joined.
func (h *WebSocketHub) StartBroadcastLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		var lastSeq, lastRevision uint64
		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap == nil || snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence

			withGrid := h.needGrid.Swap(false) || snap.GridRevision != lastRevision
			lastRevision = snap.GridRevision

			h.Broadcast("game:state", NewStateResponse(snap, withGrid))
		}
	}()
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", MaxWSConnectionsTotal)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}
	conn.SetReadLimit(MaxWSMessageSize)

	client := &wsClient{conn: conn, ip: ip}
	select {
	case h.register <- client:
	case <-h.stopChan:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stopChan:
			}
		}()

		bucket := h.commandBudget.newBucket()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !bucket.Allow() {
				RecordWSCommand("throttled")
				continue
			}
			if err := h.handleCommand(message); err != nil {
				log.Printf("⚠️ WebSocket command from %s rejected: %v", ip, err)
			}
		}
	}()
}

// handleCommand applies one inbound frame to the engine.
func (h *WebSocketHub) handleCommand(message []byte) error {
	var cmd wsCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		RecordWSCommand("invalid")
		return err
	}

	switch cmd.Type {
	case "input":
		var in game.InputState
		if err := json.Unmarshal(cmd.Data, &in); err != nil {
			RecordWSCommand("invalid")
			return err
		}
		h.engine.SetInput(in)

	case "aim":
		var target game.Vec
		if err := json.Unmarshal(cmd.Data, &target); err != nil {
			RecordWSCommand("invalid")
			return err
		}
		h.engine.SetAim(target)

	case "net":
		msg, err := game.DecodeNetMessage(cmd.Data)
		if err != nil {
			RecordWSCommand("invalid")
			return err
		}
		if !h.engine.QueueNet(msg) {
			log.Println("⚠️ Net queue full, message dropped")
		}

	case "restart":
		h.engine.Restart()

	default:
		RecordWSCommand("invalid")
		return fmt.Errorf("unknown command %q", cmd.Type)
	}

	RecordWSCommand(cmd.Type)
	return nil
}
