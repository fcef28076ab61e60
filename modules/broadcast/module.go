package broadcast

import (
	"context"
	"fmt"
	"log"

	chat "github.com/example/roomchat/domain/chat"
	"github.com/example/roomchat/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BroadcastModule consumes room events and fans them out to connected
// WebSocket clients through the hub.
type BroadcastModule struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.EventConsumerModule = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule.
func NewModule() *BroadcastModule {
	return &BroadcastModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start initializes the module and starts the hub.
func (m *BroadcastModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[broadcast] Module started - WebSocket hub running")
	return nil
}

// Stop shuts down the module.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait() // Wait for hub to finish
	}
	log.Printf("[broadcast] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers registers event handlers.
func (m *BroadcastModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageSentV1, m.handleMessageSent, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.MemberLeftV1, m.handleMemberLeft, m,
	); err != nil {
		return fmt.Errorf("failed to register MemberLeft consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomDeletedV1, m.handleRoomDeleted, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomDeleted consumer: %w", err)
	}

	log.Println("[broadcast] Registered event consumers: MessageSent, MemberLeft, RoomDeleted")
	return nil
}

// handleMessageSent fans a stored message out to the room. The payload is
// delivered exactly as stored: name, message, time.
func (m *BroadcastModule) handleMessageSent(_ context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	m.hub.Broadcast(event.RoomCode, chat.Message{
		Name: event.Name,
		Body: event.Message,
		Time: event.Time,
	})
	return nil
}

// handleMemberLeft delivers the leave notice to the room. The notice is
// transient: clients see it, history does not.
func (m *BroadcastModule) handleMemberLeft(_ context.Context, event events.MemberLeftEvent, _ *mono.Msg) error {
	log.Printf("[broadcast] Broadcasting leave notice for %s in room %s", event.Username, event.RoomCode)

	m.hub.Broadcast(event.RoomCode, chat.Message{
		Name: chat.SystemName,
		Body: fmt.Sprintf("%s has left the room", event.Username),
		Time: event.Time,
	})
	return nil
}

// handleRoomDeleted sends a best-effort deletion notice to clients still
// connected to the room.
func (m *BroadcastModule) handleRoomDeleted(_ context.Context, event events.RoomDeletedEvent, _ *mono.Msg) error {
	log.Printf("[broadcast] Broadcasting deletion of room %s", event.RoomCode)

	m.hub.Broadcast(event.RoomCode, chat.Message{
		Name: chat.SystemName,
		Body: fmt.Sprintf("Room %s was deleted by its owner", event.RoomCode),
		Time: event.Time,
	})
	return nil
}

// GetHub returns the WebSocket hub for the API module to use.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}
