package alertengine

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans published alert sets out to connected websocket clients. Slow
// clients are skipped rather than allowed to stall a broadcast.
type Hub struct {
	log      *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			// The map page may be served from a different origin than the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// HandleWS upgrades the connection and keeps it registered until the client
// goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("ws upgrade error: %v", err)
		return
	}

	send := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go func() {
		for data := range send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Drain the read side until the peer disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	close(send)
	_ = conn.Close()
}

// BroadcastAlerts pushes a freshly published alert set to every client.
func (h *Hub) BroadcastAlerts(res *RunResult) {
	h.broadcast(map[string]any{
		"type":    "alerts",
		"alerts":  res.Alerts,
		"partial": res.Partial,
	})
}

// BroadcastStatus pushes an advisory status line for the frontend's
// indicator.
func (h *Hub) BroadcastStatus(status string) {
	h.broadcast(map[string]any{
		"type":   "status",
		"status": status,
	})
}

func (h *Hub) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, send := range h.clients {
		select {
		case send <- data:
		default:
			// client too slow, skip
		}
	}
}

// ClientCount is used by the status endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
