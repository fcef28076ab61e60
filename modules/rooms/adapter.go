package rooms

import (
	"context"
	"encoding/json"
	"fmt"

	chat "github.com/example/roomchat/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RoomsPort defines the interface other modules use to access the room
// registry.
type RoomsPort interface {
	CreateRoom(ctx context.Context, owner string) (*chat.RoomInfo, error)
	JoinRoom(ctx context.Context, code, username string) error
	EnterRoom(ctx context.Context, code, username string) error
	LeaveRoom(ctx context.Context, code, username string) error
	DeleteRoom(ctx context.Context, code, requester string) error
	ListVisible(ctx context.Context, username string) ([]chat.RoomInfo, error)
	SendMessage(ctx context.Context, code, name, body string) (*chat.Message, error)
	GetRoom(ctx context.Context, code string) (*chat.RoomInfo, error)
	GetHistory(ctx context.Context, code string) ([]chat.Message, error)
}

// RoomsAdapter implements RoomsPort using the service container.
type RoomsAdapter struct {
	container mono.ServiceContainer
}

// NewRoomsAdapter creates a new RoomsAdapter.
func NewRoomsAdapter(container mono.ServiceContainer) *RoomsAdapter {
	return &RoomsAdapter{
		container: container,
	}
}

// CreateRoom creates a new room owned by the given user.
func (a *RoomsAdapter) CreateRoom(ctx context.Context, owner string) (*chat.RoomInfo, error) {
	req := CreateRoomRequest{Owner: owner}
	var resp CreateRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreateRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-room request failed: %w", err)
	}

	return &chat.RoomInfo{
		Code:      resp.Code,
		Owner:     resp.Owner,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// JoinRoom adds the room to the user's dashboard.
func (a *RoomsAdapter) JoinRoom(ctx context.Context, code, username string) error {
	req := JoinRoomRequest{Code: code, Username: username}
	var resp JoinRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceJoinRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("join-room request failed: %w", err)
	}
	return nil
}

// EnterRoom records a live client entering a room.
func (a *RoomsAdapter) EnterRoom(ctx context.Context, code, username string) error {
	req := EnterRoomRequest{Code: code, Username: username}
	var resp EnterRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceEnterRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("enter-room request failed: %w", err)
	}
	return nil
}

// LeaveRoom records a live client leaving a room.
func (a *RoomsAdapter) LeaveRoom(ctx context.Context, code, username string) error {
	req := LeaveRoomRequest{Code: code, Username: username}
	var resp LeaveRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceLeaveRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("leave-room request failed: %w", err)
	}
	return nil
}

// DeleteRoom deletes a room if the requester owns it.
func (a *RoomsAdapter) DeleteRoom(ctx context.Context, code, requester string) error {
	req := DeleteRoomRequest{Code: code, Requester: requester}
	var resp DeleteRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDeleteRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete-room request failed: %w", err)
	}
	return nil
}

// ListVisible returns the rooms on a user's dashboard.
func (a *RoomsAdapter) ListVisible(ctx context.Context, username string) ([]chat.RoomInfo, error) {
	req := ListVisibleRequest{Username: username}
	var resp ListVisibleResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListVisible,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-visible request failed: %w", err)
	}
	return resp.Rooms, nil
}

// SendMessage appends a message to a room's history.
func (a *RoomsAdapter) SendMessage(ctx context.Context, code, name, body string) (*chat.Message, error) {
	req := SendMessageRequest{Code: code, Name: name, Body: body}
	var resp SendMessageResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSendMessage,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("send-message request failed: %w", err)
	}
	return &resp.Message, nil
}

// GetRoom returns a single room summary.
func (a *RoomsAdapter) GetRoom(ctx context.Context, code string) (*chat.RoomInfo, error) {
	req := GetRoomRequest{Code: code}
	var resp GetRoomResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetRoom,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-room request failed: %w", err)
	}
	return &resp.Room, nil
}

// GetHistory returns a room's full message history.
func (a *RoomsAdapter) GetHistory(ctx context.Context, code string) ([]chat.Message, error) {
	req := GetHistoryRequest{Code: code}
	var resp GetHistoryResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetHistory,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-history request failed: %w", err)
	}
	return resp.Messages, nil
}
