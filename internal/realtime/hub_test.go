package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jvidalgz/go-gympulse/internal/services"
)

func newTestClient() *Client {
	return &Client{
		ID:   "test-client",
		send: make(chan []byte, 4),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case frame := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestEmitReachesAllRegisteredClients(t *testing.T) {
	hub := NewHub(&services.NoOpLogger{})
	go hub.Run()

	first := newTestClient()
	second := newTestClient()
	hub.Register(first)
	hub.Register(second)

	hub.Emit(services.EventChatMessage, map[string]string{"text": "hola"})

	for _, c := range []*Client{first, second} {
		ev := receiveEvent(t, c)
		require.Equal(t, services.EventChatMessage, ev.Name)
	}
}

func TestUnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub(&services.NoOpLogger{})
	go hub.Run()

	staying := newTestClient()
	leaving := newTestClient()
	hub.Register(staying)
	hub.Register(leaving)

	hub.Unregister(leaving)

	// The hub closes the send channel on unregister.
	require.Eventually(t, func() bool {
		select {
		case _, open := <-leaving.send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	hub.Emit(services.EventChatMessage, "after leave")
	ev := receiveEvent(t, staying)
	require.Equal(t, services.EventChatMessage, ev.Name)
}

func TestSlowClientIsDroppedWithoutBlockingOthers(t *testing.T) {
	hub := NewHub(&services.NoOpLogger{})
	go hub.Run()

	healthy := newTestClient()
	slow := &Client{ID: "slow", send: make(chan []byte)} // zero buffer, never drained
	hub.Register(healthy)
	hub.Register(slow)

	hub.Emit(services.EventChatMessage, "first")

	ev := receiveEvent(t, healthy)
	require.Equal(t, services.EventChatMessage, ev.Name)

	// The slow client's channel gets closed when it is dropped.
	require.Eventually(t, func() bool {
		select {
		case _, open := <-slow.send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// Later broadcasts still flow to the healthy client.
	hub.Emit(services.EventChatMessage, "second")
	ev = receiveEvent(t, healthy)
	require.Equal(t, services.EventChatMessage, ev.Name)
}

func TestEnqueueAfterDropDiscardsEvent(t *testing.T) {
	hub := NewHub(&services.NoOpLogger{})
	go hub.Run()

	slow := &Client{ID: "slow", send: make(chan []byte)} // zero buffer, never drained
	hub.Register(slow)

	// The broadcast finds the buffer full; the hub drops the client
	// and closes its send channel.
	hub.Emit(services.EventChatMessage, "overflow")
	require.Eventually(t, func() bool {
		select {
		case _, open := <-slow.send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// A late per-client event, like a read pump answering a malformed
	// frame, lands after the drop. It must be discarded, not panic.
	require.NotPanics(t, func() {
		slow.Enqueue(services.EventError, map[string]string{"message": "invalid frame"})
	})
	require.NotPanics(t, func() {
		hub.Unregister(slow)
	})
}

func TestEnqueueTargetsOneClientOnly(t *testing.T) {
	hub := NewHub(&services.NoOpLogger{})
	go hub.Run()

	target := newTestClient()
	other := newTestClient()
	hub.Register(target)
	hub.Register(other)

	target.Enqueue(services.EventChatHistory, []string{"a", "b"})

	ev := receiveEvent(t, target)
	require.Equal(t, services.EventChatHistory, ev.Name)

	select {
	case frame := <-other.send:
		t.Fatalf("unexpected frame for other client: %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}
