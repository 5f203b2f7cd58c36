// File: internal/realtime/hub.go
package realtime

import (
	"encoding/json"

	"github.com/jvidalgz/go-gympulse/internal/services"
)

// Event is the JSON envelope every frame on the push channel uses, in
// both directions.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// Hub is the connection registry and fan-out primitive. It lives for
// the whole process; clients register on connect and disappear on
// disconnect, nothing survives a restart. All mutation goes through
// the Run loop, so no locks are needed around the client set.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     services.Logger
}

func NewHub(logger services.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
}

// Run owns the client set. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("client connected", "socket_id", client.ID, "connected", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.logger.Info("client disconnected", "socket_id", client.ID, "connected", len(h.clients))
			}
		case frame := <-h.broadcast:
			for client := range h.clients {
				if !client.trySend(frame) {
					// Slow consumer: drop it rather than stall
					// delivery to everyone else.
					delete(h.clients, client)
					client.closeSend()
					h.logger.Warn("dropped slow client", "socket_id", client.ID)
				}
			}
		}
	}
}

// Emit broadcasts an event to every connected client. Fire-and-forget:
// a marshal failure is logged and swallowed, and no per-client
// delivery problem ever reaches the caller.
func (h *Hub) Emit(event string, payload interface{}) {
	frame, err := json.Marshal(Event{Name: event, Data: payload})
	if err != nil {
		h.logger.Error("could not marshal push event", "event", event, "error", err.Error())
		return
	}
	h.broadcast <- frame
}

// Register adds a connection to the registry.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection; safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}
