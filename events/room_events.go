package events

import (
	"github.com/go-monolith/mono/pkg/helper"
)

// MessageSentEvent is emitted whenever a message is appended to a room's
// history, including the system join notices. The name/message/time fields
// carry the exact payload delivered to connected clients.
type MessageSentEvent struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Message  string `json:"message"`
	Time     string `json:"time"`
}

// MemberLeftEvent is emitted when a user leaves a room. The notice is
// delivered to connected clients but never stored in room history.
type MemberLeftEvent struct {
	RoomCode string `json:"room_code"`
	Username string `json:"username"`
	Time     string `json:"time"`
}

// RoomDeletedEvent is emitted when an owner deletes their room.
type RoomDeletedEvent struct {
	RoomCode string `json:"room_code"`
	Owner    string `json:"owner"`
	Time     string `json:"time"`
}

// Event definitions for the rooms domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"rooms",
		"MessageSent",
		"v1",
	)

	MemberLeftV1 = helper.EventDefinition[MemberLeftEvent](
		"rooms",
		"MemberLeft",
		"v1",
	)

	RoomDeletedV1 = helper.EventDefinition[RoomDeletedEvent](
		"rooms",
		"RoomDeleted",
		"v1",
	)
)
