package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// OverviewChannel carries refreshed summaries for the all-respondents
// dashboard; per-respondent channels are keyed by capability token.
const OverviewChannel = "overview"

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*websocket.Conn]bool)
	}
	h.channels[channel][conn] = true
	log.Printf("ws: client connected to %s (total: %d)", channel, len(h.channels[channel]))
}

func (h *Hub) RemoveConnection(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.channels[channel]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.channels, channel)
		}
		log.Printf("ws: client disconnected from %s", channel)
	}
}

// Broadcast holds the write lock for the whole fan-out: gorilla conns allow
// at most one concurrent writer, and a failed write removes the conn from the
// shared set.
func (h *Hub) Broadcast(channel string, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.channels[channel]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
