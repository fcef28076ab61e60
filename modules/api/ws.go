package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/roomchat/modules/broadcast"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// ClientEvent is a frame sent by the client over the WebSocket.
type ClientEvent struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

// Client event types.
const (
	WSEventJoin    = "join"
	WSEventMessage = "message"
)

// WSError is an error frame sent to a single client.
type WSError struct {
	Error string `json:"error"`
}

// handleWebSocket handles WebSocket connections at /ws.
//
// The session token comes from the session cookie (or a token query
// parameter) captured at upgrade time; the active room is read from it when
// the client sends a join event. Cleanup on disconnect always runs: the
// member is removed from the room and the leave notice goes out, whether the
// client closed cleanly or the connection dropped.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		token = c.Query("token")
	}

	session, err := m.authAdapter.ValidateSession(context.Background(), token)
	if err != nil {
		_ = c.WriteJSON(WSError{Error: "Invalid or expired session"})
		_ = c.Close()
		return
	}

	clientID := uuid.New().String()
	client := &broadcast.Client{
		ID:       clientID,
		Username: session.Username,
		Conn:     c,
	}

	m.hub.Register(client)
	defer func() {
		if client.RoomCode != "" {
			if err := m.roomsAdapter.LeaveRoom(context.Background(), client.RoomCode, client.Username); err != nil {
				log.Printf("[api] Failed to leave room %s for %s: %v", client.RoomCode, client.Username, err)
			}
			m.hub.LeaveRoom(clientID)
		}
		m.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s (%s)", clientID, session.Username)
	}()

	log.Printf("[api] WebSocket client connected: %s (%s)", clientID, session.Username)

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			} else {
				log.Printf("[api] Read error from %s: %v", clientID, err)
			}
			break
		}

		var event ClientEvent
		if err := json.Unmarshal(msgBytes, &event); err != nil {
			m.sendWSError(c, "Invalid message format")
			continue
		}

		switch event.Event {
		case WSEventJoin:
			m.handleWSJoin(c, client, session.Room)
		case WSEventMessage:
			m.handleWSMessage(c, client, event.Data)
		default:
			m.sendWSError(c, "Unknown event: "+event.Event)
		}
	}
}

// handleWSJoin enters the session's active room. The join notice is stored
// in history and fanned out, reaching this client too once it is in the
// room set.
func (m *APIModule) handleWSJoin(c *websocket.Conn, client *broadcast.Client, room string) {
	if room == "" {
		m.sendWSError(c, "No active room in session")
		return
	}

	// Room set membership must precede the enter call so the join notice
	// reaches this client as well. JoinRoom and LeaveRoom update
	// client.RoomCode under the hub mutex.
	m.hub.JoinRoom(client.ID, room)

	if err := m.roomsAdapter.EnterRoom(context.Background(), room, client.Username); err != nil {
		m.hub.LeaveRoom(client.ID)
		m.sendWSError(c, "Failed to join room: "+err.Error())
		return
	}
}

// handleWSMessage appends a message to the active room. Delivery to everyone
// in the room, including the sender, happens via the broadcast module.
func (m *APIModule) handleWSMessage(c *websocket.Conn, client *broadcast.Client, body string) {
	if client.RoomCode == "" {
		m.sendWSError(c, "Join a room first")
		return
	}

	if body == "" {
		m.sendWSError(c, "Message data is required")
		return
	}

	if _, err := m.roomsAdapter.SendMessage(context.Background(), client.RoomCode, client.Username, body); err != nil {
		m.sendWSError(c, "Failed to send message")
		return
	}
}

func (m *APIModule) sendWSError(c *websocket.Conn, message string) {
	_ = c.WriteJSON(WSError{Error: message})
}
