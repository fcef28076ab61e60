package rooms

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	chat "github.com/example/roomchat/domain/chat"
)

// seededGenerator returns a CodeGenerator backed by a seeded math/rand
// source, so tests get a reproducible code sequence.
func seededGenerator(seed int64) CodeGenerator {
	rng := rand.New(rand.NewSource(seed))
	return func(length int) (string, error) {
		code := make([]byte, length)
		for i := range code {
			code[i] = codeChars[rng.Intn(len(codeChars))]
		}
		return string(code), nil
	}
}

// sequenceGenerator returns the given codes in order.
func sequenceGenerator(codes ...string) CodeGenerator {
	i := 0
	return func(int) (string, error) {
		if i >= len(codes) {
			return "", fmt.Errorf("sequence exhausted")
		}
		code := codes[i]
		i++
		return code, nil
	}
}

func TestRoomStore_CreateRoom(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	info, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	if !IsValidRoomCode(info.Code) {
		t.Errorf("CreateRoom() code = %q, want %d uppercase letters", info.Code, CodeLength)
	}
	if info.Owner != "alice" {
		t.Errorf("CreateRoom() owner = %q, want %q", info.Owner, "alice")
	}
	// The creator starts as the sole member
	if info.Members != 1 {
		t.Errorf("CreateRoom() members = %d, want 1", info.Members)
	}

	// Creator sees the room on their dashboard immediately
	visible := store.ListVisible("alice")
	if len(visible) != 1 || visible[0].Code != info.Code {
		t.Errorf("ListVisible(alice) = %v, want the new room", visible)
	}

	// Other users do not
	if got := store.ListVisible("bob"); len(got) != 0 {
		t.Errorf("ListVisible(bob) = %v, want empty", got)
	}

	// History starts empty
	messages, err := store.History(info.Code)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("History() = %v, want empty", messages)
	}
}

func TestRoomStore_CreateRoom_Deterministic(t *testing.T) {
	// Two stores with the same seed produce the same code sequence.
	a := NewRoomStoreWithGenerator(seededGenerator(42))
	b := NewRoomStoreWithGenerator(seededGenerator(42))

	for i := 0; i < 5; i++ {
		infoA, err := a.CreateRoom("alice")
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		infoB, err := b.CreateRoom("alice")
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		if infoA.Code != infoB.Code {
			t.Errorf("room %d: codes diverged: %q vs %q", i, infoA.Code, infoB.Code)
		}
	}
}

func TestRoomStore_CreateRoom_RedrawsOnCollision(t *testing.T) {
	store := NewRoomStoreWithGenerator(sequenceGenerator("AAAAAA", "AAAAAA", "BBBBBB"))

	first, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if first.Code != "AAAAAA" {
		t.Fatalf("first code = %q, want AAAAAA", first.Code)
	}

	// The second create draws AAAAAA again, detects the collision and
	// redraws.
	second, err := store.CreateRoom("bob")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if second.Code != "BBBBBB" {
		t.Errorf("second code = %q, want BBBBBB", second.Code)
	}
}

func TestRoomStore_CreateRoom_CodeExhausted(t *testing.T) {
	// A generator stuck on one code exhausts the redraw budget.
	store := NewRoomStoreWithGenerator(func(int) (string, error) {
		return "AAAAAA", nil
	})

	if _, err := store.CreateRoom("alice"); err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	_, err := store.CreateRoom("bob")
	if !errors.Is(err, ErrCodeExhausted) {
		t.Errorf("CreateRoom() error = %v, want ErrCodeExhausted", err)
	}
}

func TestRoomStore_VisibilityAndMembership(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	info, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	code := info.Code

	// Joining adds to the dashboard, not to membership: only the owner is a
	// member so far
	if err := store.AddVisible(code, "bob"); err != nil {
		t.Fatalf("AddVisible() error = %v", err)
	}
	if got := store.ListVisible("bob"); len(got) != 1 {
		t.Fatalf("ListVisible(bob) = %v, want 1 room", got)
	}
	if got := store.MemberCount(code); got != 1 {
		t.Errorf("MemberCount() = %d, want 1 after AddVisible", got)
	}

	// Entering adds to membership
	if _, err := store.AddMember(code, "bob"); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if got := store.MemberCount(code); got != 2 {
		t.Errorf("MemberCount() = %d, want 2 after AddMember", got)
	}

	// Leaving removes membership but keeps the dashboard entry
	removed, err := store.RemoveMember(code, "bob")
	if err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if !removed {
		t.Error("RemoveMember() = false, want true for a member")
	}
	if got := store.MemberCount(code); got != 1 {
		t.Errorf("MemberCount() = %d, want 1 after RemoveMember", got)
	}
	if got := store.ListVisible("bob"); len(got) != 1 {
		t.Errorf("ListVisible(bob) = %v, want room retained after leave", got)
	}
}

func TestRoomStore_RemoveMember_ReportsNonMembers(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	info, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	// bob sees the room but never entered it, so there is nothing to remove
	// and no leave notice should go out
	if err := store.AddVisible(info.Code, "bob"); err != nil {
		t.Fatalf("AddVisible() error = %v", err)
	}
	removed, err := store.RemoveMember(info.Code, "bob")
	if err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if removed {
		t.Error("RemoveMember() = true, want false for a non-member")
	}
}

func TestRoomStore_AddVisible_RoomNotFound(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	err := store.AddVisible("NOSUCH", "bob")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("AddVisible() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomStore_JoinNoticePersisted(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	info, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	notice, err := store.AddMember(info.Code, "bob")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if notice.Name != chat.SystemName {
		t.Errorf("notice.Name = %q, want %q", notice.Name, chat.SystemName)
	}
	if notice.Body != "bob joined the room" {
		t.Errorf("notice.Body = %q, want %q", notice.Body, "bob joined the room")
	}

	// The join notice is part of history
	messages, err := store.History(info.Code)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(messages) != 1 || messages[0] != notice {
		t.Errorf("History() = %v, want the join notice", messages)
	}

	// Leaving leaves history untouched
	if _, err := store.RemoveMember(info.Code, "bob"); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	messages, err = store.History(info.Code)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("History() after leave has %d messages, want 1", len(messages))
	}
}

func TestRoomStore_AppendMessage(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	info, err := store.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		msg, err := store.AppendMessage(info.Code, "alice", body)
		if err != nil {
			t.Fatalf("AppendMessage(%q) error = %v", body, err)
		}
		if msg.Name != "alice" || msg.Body != body {
			t.Errorf("AppendMessage() = %+v, want name alice, body %q", msg, body)
		}
		if len(msg.Time) != len("15:04:05") {
			t.Errorf("AppendMessage() time = %q, want HH:MM:SS", msg.Time)
		}
	}

	// History preserves insertion order
	messages, err := store.History(info.Code)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(messages) != len(bodies) {
		t.Fatalf("History() has %d messages, want %d", len(messages), len(bodies))
	}
	for i, body := range bodies {
		if messages[i].Body != body {
			t.Errorf("History()[%d].Body = %q, want %q", i, messages[i].Body, body)
		}
	}

	_, err = store.AppendMessage("NOSUCH", "alice", "hi")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("AppendMessage() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomStore_Delete(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		wantErr   error
	}{
		{
			name:      "owner can delete",
			requester: "alice",
			wantErr:   nil,
		},
		{
			name:      "non-owner cannot delete",
			requester: "bob",
			wantErr:   ErrNotOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewRoomStoreWithGenerator(seededGenerator(1))
			info, err := store.CreateRoom("alice")
			if err != nil {
				t.Fatalf("CreateRoom() error = %v", err)
			}
			if err := store.AddVisible(info.Code, "bob"); err != nil {
				t.Fatalf("AddVisible() error = %v", err)
			}

			err = store.Delete(info.Code, tt.requester)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
			}

			deleted := tt.wantErr == nil
			if store.Exists(info.Code) == deleted {
				t.Errorf("Exists() = %v after delete attempt", !deleted)
			}

			// Deletion clears the room from every dashboard
			if deleted {
				if got := store.ListVisible("alice"); len(got) != 0 {
					t.Errorf("ListVisible(alice) = %v, want empty after delete", got)
				}
				if got := store.ListVisible("bob"); len(got) != 0 {
					t.Errorf("ListVisible(bob) = %v, want empty after delete", got)
				}
			}
		})
	}
}

func TestRoomStore_Delete_RoomNotFound(t *testing.T) {
	store := NewRoomStoreWithGenerator(seededGenerator(1))

	err := store.Delete("NOSUCH", "alice")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Delete() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomStore_ListVisible_Sorted(t *testing.T) {
	store := NewRoomStoreWithGenerator(sequenceGenerator("CCCCCC", "AAAAAA", "BBBBBB"))

	for i := 0; i < 3; i++ {
		if _, err := store.CreateRoom("alice"); err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
	}

	visible := store.ListVisible("alice")
	if len(visible) != 3 {
		t.Fatalf("ListVisible() has %d rooms, want 3", len(visible))
	}
	want := []string{"AAAAAA", "BBBBBB", "CCCCCC"}
	for i, code := range want {
		if visible[i].Code != code {
			t.Errorf("ListVisible()[%d].Code = %q, want %q", i, visible[i].Code, code)
		}
	}
}
