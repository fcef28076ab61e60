package broadcast

import (
	"context"
	"testing"
	"time"
)

func TestHub_RegisterAndRoomBookkeeping(t *testing.T) {
	h := NewHub()

	alice := &Client{ID: "c1", Username: "alice"}
	bob := &Client{ID: "c2", Username: "bob"}

	h.handleRegister(alice)
	h.handleRegister(bob)

	if got := h.ClientCount(); got != 2 {
		t.Fatalf("ClientCount() = %d, want 2", got)
	}

	h.JoinRoom("c1", "ABCDEF")
	h.JoinRoom("c2", "ABCDEF")

	if got := h.RoomClientCount("ABCDEF"); got != 2 {
		t.Errorf("RoomClientCount(ABCDEF) = %d, want 2", got)
	}
	if alice.RoomCode != "ABCDEF" {
		t.Errorf("alice.RoomCode = %q, want ABCDEF", alice.RoomCode)
	}

	// Joining a second room moves the client out of the first
	h.JoinRoom("c1", "GHIJKL")
	if got := h.RoomClientCount("ABCDEF"); got != 1 {
		t.Errorf("RoomClientCount(ABCDEF) = %d, want 1 after move", got)
	}
	if got := h.RoomClientCount("GHIJKL"); got != 1 {
		t.Errorf("RoomClientCount(GHIJKL) = %d, want 1 after move", got)
	}

	h.LeaveRoom("c2")
	if got := h.RoomClientCount("ABCDEF"); got != 0 {
		t.Errorf("RoomClientCount(ABCDEF) = %d, want 0 after leave", got)
	}
	if bob.RoomCode != "" {
		t.Errorf("bob.RoomCode = %q, want empty after leave", bob.RoomCode)
	}
}

func TestHub_UnregisterRemovesFromRoom(t *testing.T) {
	h := NewHub()

	client := &Client{ID: "c1", Username: "alice"}
	h.handleRegister(client)
	h.JoinRoom("c1", "ABCDEF")

	h.handleUnregister(client)

	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
	if got := h.RoomClientCount("ABCDEF"); got != 0 {
		t.Errorf("RoomClientCount(ABCDEF) = %d, want 0", got)
	}
	if h.GetClient("c1") != nil {
		t.Error("GetClient(c1) != nil after unregister")
	}
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	h := NewHub()

	// Unregistering a client that was never registered is a no-op
	h.handleUnregister(&Client{ID: "ghost"})

	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestHub_JoinRoomUnknownClient(t *testing.T) {
	h := NewHub()

	h.JoinRoom("ghost", "ABCDEF")

	if got := h.RoomClientCount("ABCDEF"); got != 0 {
		t.Errorf("RoomClientCount(ABCDEF) = %d, want 0", got)
	}
}

func TestHub_RunShutdown(t *testing.T) {
	h := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop within 1s of context cancellation")
	}
}
