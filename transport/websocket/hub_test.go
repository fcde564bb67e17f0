package websocket

import (
	"encoding/json"
	"testing"

	"github.com/hallwaylabs/hallway/space/engine"
	"github.com/hallwaylabs/hallway/space/room"
)

func newTestClient(id string, queue int) *Client {
	return &Client{
		id:   id,
		send: make(chan []byte, queue),
		done: make(chan struct{}),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil, nil)

	client := newTestClient("conn-1", 4)
	hub.register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", hub.ClientCount())
	}

	hub.unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}

	// Unregistering twice is harmless.
	hub.unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0 after double unregister", hub.ClientCount())
	}
}

func TestHubSendEvent(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient("conn-1", 4)
	hub.register(client)

	hub.SendEvent("conn-1", UserLeftEvent("alice"))

	select {
	case data := <-client.send:
		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("invalid json on queue: %v", err)
		}
		if envelope.Type != TypeUserLeft {
			t.Errorf("type = %q, want %q", envelope.Type, TypeUserLeft)
		}
	default:
		t.Fatal("expected event on client queue")
	}

	// Sending to an unknown connection is a no-op.
	hub.SendEvent("conn-ghost", UserLeftEvent("alice"))
}

func TestHubBroadcastExcludes(t *testing.T) {
	hub := NewHub(nil, nil)
	a := newTestClient("conn-a", 4)
	b := newTestClient("conn-b", 4)
	c := newTestClient("conn-c", 4)
	for _, client := range []*Client{a, b, c} {
		hub.register(client)
	}

	hub.BroadcastEvent([]string{"conn-a", "conn-b", "conn-c"}, MovementEvent("alice", engine.Position{X: 1, Y: 2}), "conn-b")

	if len(a.send) != 1 || len(c.send) != 1 {
		t.Errorf("recipients got %d/%d events, want 1/1", len(a.send), len(c.send))
	}
	if len(b.send) != 0 {
		t.Errorf("excluded connection got %d events, want 0", len(b.send))
	}
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	metrics := room.NewMetrics()
	hub := NewHub(nil, metrics)
	client := newTestClient("conn-1", 1)
	hub.register(client)

	hub.SendEvent("conn-1", UserLeftEvent("alice"))
	hub.SendEvent("conn-1", UserLeftEvent("bob")) // queue full, dropped

	if len(client.send) != 1 {
		t.Errorf("queue holds %d events, want 1", len(client.send))
	}
	if dropped := metrics.Snapshot()["events_dropped"]; dropped != 1 {
		t.Errorf("events_dropped = %d, want 1", dropped)
	}

	// A closing connection also drops instead of blocking.
	close(client.done)
	hub.SendEvent("conn-1", UserLeftEvent("carol"))
	if dropped := metrics.Snapshot()["events_dropped"]; dropped != 2 {
		t.Errorf("events_dropped = %d, want 2", dropped)
	}
}
