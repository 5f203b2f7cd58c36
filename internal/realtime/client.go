// File: internal/realtime/client.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jvidalgz/go-gympulse/internal/services"
)

// Client is one live push connection. The send channel is buffered so
// a briefly busy socket does not block broadcasts; the hub drops the
// client outright if the buffer fills up. All sends and the close go
// through trySend/closeSend, which share the mutex: the hub may close
// the channel while the read pump is still answering this client.
type Client struct {
	ID   string
	hub  *Hub
	chat *services.ChatService
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(hub *Hub, chat *services.ChatService, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		chat: chat,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Enqueue sends an event to this connection only, used for the history
// replay on connect and for error events that must not broadcast. An
// event for a client the hub already dropped is discarded.
func (c *Client) Enqueue(event string, payload interface{}) {
	frame, err := json.Marshal(Event{Name: event, Data: payload})
	if err != nil {
		return
	}
	c.trySend(frame)
}

// trySend queues a frame unless the buffer is full or the channel is
// already closed. It reports false in both cases; the hub treats false
// on a broadcast as a slow consumer.
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. Only the hub calls
// this, on unregister or a slow-consumer drop.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump consumes inbound frames until the connection drops, then
// unregisters the client. A malformed frame answers this client with
// an error event and the loop keeps going; nothing a single client
// sends can take the transport down.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.Enqueue(services.EventError, map[string]string{"message": "invalid frame"})
			continue
		}

		switch frame.Event {
		case services.EventChatMessage:
			c.handleChatMessage(frame.Data)
		default:
			c.Enqueue(services.EventError, map[string]string{"message": "unknown event: " + frame.Event})
		}
	}
}

// WritePump drains the send channel onto the socket. It ends when the
// hub closes the channel (disconnect or slow-consumer drop).
func (c *Client) WritePump() {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

func (c *Client) handleChatMessage(data json.RawMessage) {
	incoming, err := DecodeChatPayload(data)
	if err != nil {
		c.Enqueue(services.EventError, map[string]string{"message": "invalid message format"})
		return
	}

	// PostMessage broadcasts the persisted record to every client,
	// this one included, on success.
	if _, err := c.chat.PostMessage(context.Background(), incoming); err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.Enqueue(services.EventError, map[string]string{"message": "invalid message"})
			return
		}
		c.Enqueue(services.EventError, map[string]string{"message": "could not save message"})
	}
}
