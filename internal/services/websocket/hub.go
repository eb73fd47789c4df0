package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"ngfw-panel/internal/services/monitor"
	"ngfw-panel/internal/services/rules"
	"ngfw-panel/internal/services/threats"
)

// Snapshot is the live payload pushed to dashboard pages every broadcast
// tick: appliance health plus the headline firewall counters.
type Snapshot struct {
	System  *monitor.SystemStats `json:"system"`
	Rules   *rules.Stats         `json:"rules,omitempty"`
	Threats *threats.Summary     `json:"threats,omitempty"`
	At      time.Time            `json:"at"`
}

type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

var WSHub *Hub

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) Run() {
	go h.broadcastSnapshots()

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			// Failed writers are dropped inline; the unregister channel
			// has no receiver while this case runs.
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) broadcastSnapshots() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mutex.RLock()
		clientCount := len(h.clients)
		h.mutex.RUnlock()

		if clientCount == 0 {
			continue
		}

		system, err := monitor.GetSystemStats()
		if err != nil {
			continue
		}

		snap := Snapshot{System: system, At: time.Now().UTC()}
		// Counter queries fail in demo mode without a store; the system
		// half of the snapshot still goes out.
		if s, err := rules.GetRuleStats(); err == nil {
			snap.Rules = s
		}
		if s, err := threats.GetSummary(); err == nil {
			snap.Threats = s
		}

		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}

		h.broadcast <- data
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

func HandleWebSocket(c *websocket.Conn) {
	WSHub.Register(c)
	defer WSHub.Unregister(c)

	for {
		_, _, err := c.ReadMessage()
		if err != nil {
			break
		}
	}
}

func InitHub() {
	WSHub = NewHub()
	go WSHub.Run()
}
