package rooms

import (
	"time"

	chat "github.com/example/roomchat/domain/chat"
)

// Service names registered in the service container.
const (
	ServiceCreateRoom  = "create-room"
	ServiceJoinRoom    = "join-room"
	ServiceEnterRoom   = "enter-room"
	ServiceLeaveRoom   = "leave-room"
	ServiceDeleteRoom  = "delete-room"
	ServiceListVisible = "list-visible"
	ServiceSendMessage = "send-message"
	ServiceGetRoom     = "get-room"
	ServiceGetHistory  = "get-history"
)

// CreateRoomRequest is the request for creating a new room.
type CreateRoomRequest struct {
	Owner string `json:"owner"`
}

// CreateRoomResponse returns the new room's summary.
type CreateRoomResponse struct {
	Code      string    `json:"code"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinRoomRequest is the request for adding a room to a user's dashboard.
type JoinRoomRequest struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

// JoinRoomResponse is the reply for a join request.
type JoinRoomResponse struct {
	Code string `json:"code"`
}

// EnterRoomRequest is the request for a live client entering a room.
type EnterRoomRequest struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

// EnterRoomResponse is the reply for an enter request.
type EnterRoomResponse struct {
	Code string `json:"code"`
}

// LeaveRoomRequest is the request for a live client leaving a room.
type LeaveRoomRequest struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

// LeaveRoomResponse is the reply for a leave request.
type LeaveRoomResponse struct {
	Code string `json:"code"`
}

// DeleteRoomRequest is the request for deleting a room.
type DeleteRoomRequest struct {
	Code      string `json:"code"`
	Requester string `json:"requester"`
}

// DeleteRoomResponse is the reply for a delete request.
type DeleteRoomResponse struct {
	Code string `json:"code"`
}

// ListVisibleRequest is the request for a user's dashboard room list.
type ListVisibleRequest struct {
	Username string `json:"username"`
}

// ListVisibleResponse returns the rooms a user's dashboard lists.
type ListVisibleResponse struct {
	Rooms []chat.RoomInfo `json:"rooms"`
}

// SendMessageRequest is the request for appending a message to a room.
type SendMessageRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// SendMessageResponse returns the stored message.
type SendMessageResponse struct {
	Message chat.Message `json:"message"`
}

// GetRoomRequest is the request for a single room summary.
type GetRoomRequest struct {
	Code string `json:"code"`
}

// GetRoomResponse returns a room summary.
type GetRoomResponse struct {
	Room chat.RoomInfo `json:"room"`
}

// GetHistoryRequest is the request for a room's message history.
type GetHistoryRequest struct {
	Code string `json:"code"`
}

// GetHistoryResponse returns a room's message history in insertion order.
type GetHistoryResponse struct {
	Messages []chat.Message `json:"messages"`
}
