package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	chat "github.com/example/roomchat/domain/chat"
	"github.com/example/roomchat/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RoomsModule owns the room registry: codes, ownership, visibility,
// membership and message history. All mutation funnels through here so that
// every history change is paired with the matching event.
type RoomsModule struct {
	store    *RoomStore
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*RoomsModule)(nil)
var _ mono.ServiceProviderModule = (*RoomsModule)(nil)
var _ mono.EventBusAwareModule = (*RoomsModule)(nil)
var _ mono.EventEmitterModule = (*RoomsModule)(nil)
var _ mono.HealthCheckableModule = (*RoomsModule)(nil)

// NewModule creates a new RoomsModule.
func NewModule() *RoomsModule {
	return &RoomsModule{
		store: NewRoomStore(),
	}
}

// Name returns the module name.
func (m *RoomsModule) Name() string {
	return "rooms"
}

// Start initializes the rooms module.
func (m *RoomsModule) Start(_ context.Context) error {
	log.Println("[rooms] Module started")
	return nil
}

// Stop shuts down the module. The registry is process-local, so rooms and
// history are discarded with it.
func (m *RoomsModule) Stop(_ context.Context) error {
	log.Println("[rooms] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *RoomsModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *RoomsModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *RoomsModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.MemberLeftV1.ToBase(),
		events.RoomDeletedV1.ToBase(),
	}
}

// Store returns the room store.
func (m *RoomsModule) Store() *RoomStore {
	return m.store
}

// RegisterServices registers request-reply services in the service container.
func (m *RoomsModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceCreateRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleCreateRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceJoinRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleJoinRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceJoinRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceEnterRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleEnterRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceEnterRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceLeaveRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleLeaveRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceLeaveRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceDeleteRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleDeleteRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceListVisible,
		json.Unmarshal,
		json.Marshal,
		m.handleListVisible,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListVisible, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceSendMessage,
		json.Unmarshal,
		json.Marshal,
		m.handleSendMessage,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceSendMessage, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceGetRoom,
		json.Unmarshal,
		json.Marshal,
		m.handleGetRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceGetHistory,
		json.Unmarshal,
		json.Marshal,
		m.handleGetHistory,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetHistory, err)
	}

	log.Printf("[rooms] Registered services: %s, %s, %s, %s, %s, %s, %s, %s, %s",
		ServiceCreateRoom, ServiceJoinRoom, ServiceEnterRoom, ServiceLeaveRoom,
		ServiceDeleteRoom, ServiceListVisible, ServiceSendMessage, ServiceGetRoom, ServiceGetHistory)
	return nil
}

// handleCreateRoom creates a room owned by the requesting user.
func (m *RoomsModule) handleCreateRoom(_ context.Context, req CreateRoomRequest, _ *mono.Msg) (CreateRoomResponse, error) {
	if req.Owner == "" {
		return CreateRoomResponse{}, fmt.Errorf("owner is required")
	}

	info, err := m.store.CreateRoom(req.Owner)
	if err != nil {
		return CreateRoomResponse{}, err
	}

	log.Printf("[rooms] Room %s created by %s", info.Code, info.Owner)
	return CreateRoomResponse{
		Code:      info.Code,
		Owner:     info.Owner,
		CreatedAt: info.CreatedAt,
	}, nil
}

// handleJoinRoom adds the room to the user's dashboard.
func (m *RoomsModule) handleJoinRoom(_ context.Context, req JoinRoomRequest, _ *mono.Msg) (JoinRoomResponse, error) {
	if !IsValidRoomCode(req.Code) {
		return JoinRoomResponse{}, ErrRoomNotFound
	}
	if err := m.store.AddVisible(req.Code, req.Username); err != nil {
		return JoinRoomResponse{}, err
	}
	return JoinRoomResponse{Code: req.Code}, nil
}

// handleEnterRoom records a live client entering a room. The join notice
// becomes part of the room's history and is fanned out to current members.
func (m *RoomsModule) handleEnterRoom(_ context.Context, req EnterRoomRequest, _ *mono.Msg) (EnterRoomResponse, error) {
	notice, err := m.store.AddMember(req.Code, req.Username)
	if err != nil {
		return EnterRoomResponse{}, err
	}

	m.publishMessage(req.Code, notice)
	log.Printf("[rooms] %s entered room %s", req.Username, req.Code)
	return EnterRoomResponse{Code: req.Code}, nil
}

// handleLeaveRoom records a live client leaving a room. Leaving a room that
// no longer exists is not an error, and the leave notice is never stored. The
// notice only goes out when the user was actually a member.
func (m *RoomsModule) handleLeaveRoom(_ context.Context, req LeaveRoomRequest, _ *mono.Msg) (LeaveRoomResponse, error) {
	removed, err := m.store.RemoveMember(req.Code, req.Username)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return LeaveRoomResponse{Code: req.Code}, nil
		}
		return LeaveRoomResponse{}, err
	}
	if !removed {
		return LeaveRoomResponse{Code: req.Code}, nil
	}

	event := events.MemberLeftEvent{
		RoomCode: req.Code,
		Username: req.Username,
		Time:     time.Now().Format(chat.TimeLayout),
	}
	if err := events.MemberLeftV1.Publish(m.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish MemberLeft event", "error", err)
	}

	log.Printf("[rooms] %s left room %s", req.Username, req.Code)
	return LeaveRoomResponse{Code: req.Code}, nil
}

// handleDeleteRoom deletes a room if the requester owns it.
func (m *RoomsModule) handleDeleteRoom(_ context.Context, req DeleteRoomRequest, _ *mono.Msg) (DeleteRoomResponse, error) {
	if err := m.store.Delete(req.Code, req.Requester); err != nil {
		return DeleteRoomResponse{}, err
	}

	event := events.RoomDeletedEvent{
		RoomCode: req.Code,
		Owner:    req.Requester,
		Time:     time.Now().Format(chat.TimeLayout),
	}
	if err := events.RoomDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish RoomDeleted event", "error", err)
	}

	log.Printf("[rooms] Room %s deleted by %s", req.Code, req.Requester)
	return DeleteRoomResponse{Code: req.Code}, nil
}

// handleListVisible returns the rooms on a user's dashboard.
func (m *RoomsModule) handleListVisible(_ context.Context, req ListVisibleRequest, _ *mono.Msg) (ListVisibleResponse, error) {
	return ListVisibleResponse{Rooms: m.store.ListVisible(req.Username)}, nil
}

// handleSendMessage appends a message to a room's history.
func (m *RoomsModule) handleSendMessage(_ context.Context, req SendMessageRequest, _ *mono.Msg) (SendMessageResponse, error) {
	if req.Body == "" {
		return SendMessageResponse{}, fmt.Errorf("message body is required")
	}

	msg, err := m.store.AppendMessage(req.Code, req.Name, req.Body)
	if err != nil {
		return SendMessageResponse{}, err
	}

	m.publishMessage(req.Code, msg)
	return SendMessageResponse{Message: msg}, nil
}

// handleGetRoom returns a single room summary.
func (m *RoomsModule) handleGetRoom(_ context.Context, req GetRoomRequest, _ *mono.Msg) (GetRoomResponse, error) {
	info, ok := m.store.GetRoom(req.Code)
	if !ok {
		return GetRoomResponse{}, ErrRoomNotFound
	}
	return GetRoomResponse{Room: *info}, nil
}

// handleGetHistory returns a room's full message history.
func (m *RoomsModule) handleGetHistory(_ context.Context, req GetHistoryRequest, _ *mono.Msg) (GetHistoryResponse, error) {
	messages, err := m.store.History(req.Code)
	if err != nil {
		return GetHistoryResponse{}, err
	}
	return GetHistoryResponse{Messages: messages}, nil
}

// publishMessage emits a MessageSent event for a freshly stored message.
func (m *RoomsModule) publishMessage(code string, msg chat.Message) {
	event := events.MessageSentEvent{
		RoomCode: code,
		Name:     msg.Name,
		Message:  msg.Body,
		Time:     msg.Time,
	}
	if err := events.MessageSentV1.Publish(m.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish MessageSent event", "error", err)
	}
}
