package websocket

import (
	"testing"

	"github.com/wondertales/video-service/internal/types"
)

// drainRegistrations pushes one extra no-op unregister through the hub.
// The register/unregister channels are unbuffered and Run handles them
// sequentially, so once this returns every earlier operation has been
// fully processed.
func drainRegistrations(hub *Hub) {
	hub.UnregisterClient(NewClient(nil, "drain-sentinel", hub))
}

func TestHubReconnectKeepsLiveClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stale := NewClient(nil, "admin_1", hub)
	hub.RegisterClient(stale)

	fresh := NewClient(nil, "admin_1", hub)
	hub.RegisterClient(fresh)

	// The replaced connection's read pump tears down after the new
	// connection already took over its slot.
	hub.UnregisterClient(stale)
	drainRegistrations(hub)

	hub.mu.RLock()
	mapped := hub.clients["admin_1"]
	hub.mu.RUnlock()
	if mapped != fresh {
		t.Fatal("Stale disconnect must not evict the live connection")
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("Expected exactly one connected client, got %d", hub.ClientCount())
	}

	// The live connection must still accept events.
	if err := fresh.SendEvent(types.NewEvent(types.EventAssetApproved, nil)); err != nil {
		t.Fatalf("Live client rejected event after stale disconnect: %v", err)
	}
	select {
	case <-fresh.send:
	default:
		t.Fatal("Expected the event queued on the live client")
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(nil, "admin_1", hub)
	hub.RegisterClient(client)

	hub.UnregisterClient(client)
	hub.UnregisterClient(client)
	drainRegistrations(hub)

	if hub.ClientCount() != 0 {
		t.Fatalf("Expected no connected clients, got %d", hub.ClientCount())
	}
}

func TestSendEventFullBufferDoesNotCloseChannel(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil, "admin_1", hub)

	event := types.NewEvent(types.EventAssetApproved, nil)
	for i := 0; i < cap(client.send); i++ {
		if err := client.SendEvent(event); err != nil {
			t.Fatalf("Unexpected error filling buffer: %v", err)
		}
	}

	if err := client.SendEvent(event); err == nil {
		t.Fatal("Expected an error on a full send buffer")
	}

	// The channel must stay usable for the hub to drain and close.
	select {
	case <-client.send:
	default:
		t.Fatal("Expected buffered events to remain readable")
	}
}
