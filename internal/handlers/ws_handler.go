// File: internal/handlers/ws_handler.go
package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/jvidalgz/go-gympulse/internal/realtime"
	"github.com/jvidalgz/go-gympulse/internal/services"
)

// WSHandler upgrades HTTP requests into push-channel connections.
type WSHandler struct {
	Hub         *realtime.Hub
	ChatService *services.ChatService
	upgrader    websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, chatService *services.ChatService, allowedOrigin string) *WSHandler {
	return &WSHandler{
		Hub:         hub,
		ChatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// ServeWS registers the new connection and replays the retained chat
// history to it alone before the pumps start. Expired messages are
// pruned as a side effect of connecting.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WSHandler] Upgrade failed: %v", err)
		return
	}

	client := realtime.NewClient(h.Hub, h.ChatService, conn)
	h.Hub.Register(client)

	history, err := h.ChatService.ReplayHistory(r.Context())
	if err != nil {
		log.Printf("[WSHandler] History replay failed for %s: %v", client.ID, err)
		client.Enqueue(services.EventError, map[string]string{"message": "could not load chat history"})
	} else {
		client.Enqueue(services.EventChatHistory, history)
	}

	go client.WritePump()
	go client.ReadPump()
}
