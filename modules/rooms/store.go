package rooms

import (
	"fmt"
	"sort"
	"sync"
	"time"

	chat "github.com/example/roomchat/domain/chat"
)

// maxCodeAttempts bounds the redraw loop when generating a unique room code.
const maxCodeAttempts = 100

// roomState is the per-room record held by the store.
type roomState struct {
	owner     string
	createdAt time.Time
	members   map[string]bool
	visibleTo map[string]bool
	messages  []chat.Message
}

// RoomStore provides thread-safe storage for rooms keyed by their code.
//
// Rooms track two distinct user sets: members are users currently connected
// to the room, visibleTo are users whose dashboard lists the room. The
// creator starts in both sets. Joining a room adds to visibleTo immediately;
// membership otherwise only changes when a client actually enters or leaves
// over a live connection. Leaving never removes a user from visibleTo; the
// only cleanup path is owner deletion.
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[string]*roomState
	generate CodeGenerator
}

// NewRoomStore creates a room store using the crypto/rand code generator.
func NewRoomStore() *RoomStore {
	return NewRoomStoreWithGenerator(GenerateRoomCode)
}

// NewRoomStoreWithGenerator creates a room store with a custom code
// generator. Used by tests to get deterministic codes.
func NewRoomStoreWithGenerator(gen CodeGenerator) *RoomStore {
	return &RoomStore{
		rooms:    make(map[string]*roomState),
		generate: gen,
	}
}

// CreateRoom creates a new room owned by the given user and returns its
// summary. The owner starts as the sole member and the sole dashboard
// entry. Codes are redrawn on collision.
func (s *RoomStore) CreateRoom(owner string) (*chat.RoomInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= maxCodeAttempts {
			return nil, ErrCodeExhausted
		}
		candidate, err := s.generate(CodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}
		if _, taken := s.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}

	room := &roomState{
		owner:     owner,
		createdAt: time.Now(),
		members:   map[string]bool{owner: true},
		visibleTo: map[string]bool{owner: true},
		messages:  make([]chat.Message, 0),
	}
	s.rooms[code] = room

	return s.infoLocked(code, room), nil
}

// Exists reports whether a room with the given code exists.
func (s *RoomStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok
}

// GetRoom returns a room summary by code.
func (s *RoomStore) GetRoom(code string) (*chat.RoomInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	return s.infoLocked(code, room), true
}

// AddVisible records that a user's dashboard should list the room.
// Idempotent for users who already see it.
func (s *RoomStore) AddVisible(code, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	room.visibleTo[username] = true
	return nil
}

// AddMember marks a user as connected to the room and appends the join
// notice to its history. The notice is returned so it can be delivered to
// everyone already in the room.
func (s *RoomStore) AddMember(code, username string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return chat.Message{}, ErrRoomNotFound
	}

	room.members[username] = true
	notice := chat.NewSystemMessage(fmt.Sprintf("%s joined the room", username), time.Now())
	room.messages = append(room.messages, notice)
	return notice, nil
}

// RemoveMember marks a user as no longer connected to the room and reports
// whether the user was actually a member. Unlike joining, the leave notice is
// not stored in history, so only membership changes here.
func (s *RoomStore) RemoveMember(code, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return false, ErrRoomNotFound
	}
	if !room.members[username] {
		return false, nil
	}
	delete(room.members, username)
	return true, nil
}

// AppendMessage appends a message to the room's history and returns the
// stored form. History is append-only and unbounded.
func (s *RoomStore) AppendMessage(code, name, body string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return chat.Message{}, ErrRoomNotFound
	}

	msg := chat.NewMessage(name, body, time.Now())
	room.messages = append(room.messages, msg)
	return msg, nil
}

// History returns a copy of the room's message history in insertion order.
func (s *RoomStore) History(code string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}

	result := make([]chat.Message, len(room.messages))
	copy(result, room.messages)
	return result, nil
}

// Delete removes a room entirely. Only the owner may delete; the room
// disappears from every dashboard because visibility is stored on the room.
func (s *RoomStore) Delete(code, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if room.owner != requester {
		return ErrNotOwner
	}
	delete(s.rooms, code)
	return nil
}

// ListVisible returns summaries of every room the user's dashboard lists,
// ordered by code for stable output.
func (s *RoomStore) ListVisible(username string) []chat.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]chat.RoomInfo, 0)
	for code, room := range s.rooms {
		if room.visibleTo[username] {
			result = append(result, *s.infoLocked(code, room))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}

// MemberCount returns the number of connected members in a room.
func (s *RoomStore) MemberCount(code string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return 0
	}
	return len(room.members)
}

// infoLocked builds a RoomInfo snapshot. Caller must hold at least a read lock.
func (s *RoomStore) infoLocked(code string, room *roomState) *chat.RoomInfo {
	return &chat.RoomInfo{
		Code:      code,
		Owner:     room.owner,
		Members:   len(room.members),
		CreatedAt: room.createdAt,
	}
}
