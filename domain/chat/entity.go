package chat

import "time"

// SystemName is the sender name used for join/leave/deletion notices.
const SystemName = "System"

// TimeLayout is the wall-clock format messages carry on the wire.
const TimeLayout = "15:04:05"

// Message is a single chat message as stored and as delivered to clients.
type Message struct {
	Name string `json:"name"`
	Body string `json:"message"`
	Time string `json:"time"`
}

// NewMessage builds a message stamped with the wall-clock time of sending.
func NewMessage(name, body string, at time.Time) Message {
	return Message{
		Name: name,
		Body: body,
		Time: at.Format(TimeLayout),
	}
}

// NewSystemMessage builds a room notice attributed to the system sender.
func NewSystemMessage(body string, at time.Time) Message {
	return NewMessage(SystemName, body, at)
}

// RoomInfo is a summary of a room as shown on the dashboard.
type RoomInfo struct {
	Code      string    `json:"code"`
	Owner     string    `json:"owner"`
	Members   int       `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}
