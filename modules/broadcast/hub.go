package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client represents a connected WebSocket client.
type Client struct {
	ID       string
	Username string
	RoomCode string
	Conn     *websocket.Conn
}

// Hub manages WebSocket connections and room fan-out. A broadcast to a room
// reaches every connection in the room set, including the sender's.
type Hub struct {
	clients    map[string]*Client         // clientID -> Client
	rooms      map[string]map[string]bool // roomCode -> set of clientIDs
	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	mu         sync.RWMutex
}

// BroadcastMessage represents a payload to deliver to a room.
type BroadcastMessage struct {
	RoomCode string
	Payload  any
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// closeAllClients closes all connected client connections.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if client.RoomCode != "" {
		if h.rooms[client.RoomCode] == nil {
			h.rooms[client.RoomCode] = make(map[string]bool)
		}
		h.rooms[client.RoomCode][client.ID] = true
	}
	log.Printf("[hub] Client %s (%s) registered", client.ID, client.Username)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		if client.RoomCode != "" && h.rooms[client.RoomCode] != nil {
			delete(h.rooms[client.RoomCode], client.ID)
			if len(h.rooms[client.RoomCode]) == 0 {
				delete(h.rooms, client.RoomCode)
			}
		}
		log.Printf("[hub] Client %s (%s) unregistered", client.ID, client.Username)
	}
}

func (h *Hub) handleBroadcast(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal broadcast message: %v", err)
		return
	}

	if clientIDs, ok := h.rooms[msg.RoomCode]; ok {
		for clientID := range clientIDs {
			if client, ok := h.clients[clientID]; ok {
				h.sendToClient(client, data)
			}
		}
	}
}

func (h *Hub) sendToClient(client *Client, data []byte) {
	if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[hub] Failed to send to client %s: %v", client.ID, err)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast delivers a payload to every client in a room.
func (h *Hub) Broadcast(roomCode string, payload any) {
	h.broadcast <- &BroadcastMessage{
		RoomCode: roomCode,
		Payload:  payload,
	}
}

// JoinRoom moves a client into a room's fan-out set.
func (h *Hub) JoinRoom(clientID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	// Leave old room if any
	if client.RoomCode != "" && h.rooms[client.RoomCode] != nil {
		delete(h.rooms[client.RoomCode], clientID)
		if len(h.rooms[client.RoomCode]) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}

	client.RoomCode = roomCode
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]bool)
	}
	h.rooms[roomCode][clientID] = true
	log.Printf("[hub] Client %s joined room %s", clientID, roomCode)
}

// LeaveRoom removes a client from their current room's fan-out set.
func (h *Hub) LeaveRoom(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok || client.RoomCode == "" {
		return
	}

	if h.rooms[client.RoomCode] != nil {
		delete(h.rooms[client.RoomCode], clientID)
		if len(h.rooms[client.RoomCode]) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}
	log.Printf("[hub] Client %s left room %s", clientID, client.RoomCode)
	client.RoomCode = ""
}

// GetClient returns a client by ID.
func (h *Hub) GetClient(clientID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[clientID]
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients in a room.
func (h *Hub) RoomClientCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.rooms[roomCode]; ok {
		return len(clients)
	}
	return 0
}
