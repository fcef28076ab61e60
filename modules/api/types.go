package api

import (
	chat "github.com/example/roomchat/domain/chat"
)

// AuthRequest is the body of the combined register/login endpoint. The
// action field selects which of the two is performed.
type AuthRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Action   string `json:"action" form:"action"`
}

// Auth actions accepted by the entry endpoint.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
)

// DashboardRequest is the body of the dashboard POST endpoint. A non-empty
// Create field requests room creation; otherwise Code selects a room to join.
type DashboardRequest struct {
	Create string `json:"create" form:"create"`
	Join   string `json:"join" form:"join"`
	Code   string `json:"code" form:"code"`
}

// CodeRequest carries a room code for switch, join-from-list and delete
// endpoints.
type CodeRequest struct {
	Code string `json:"code" form:"code"`
}

// TokenResponse returns a session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisteredResponse confirms account creation.
type RegisteredResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// RoomJoinedResponse returns the active room after a create, join or switch.
type RoomJoinedResponse struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

// DashboardResponse lists the rooms visible to the user.
type DashboardResponse struct {
	Username string          `json:"username"`
	Rooms    []chat.RoomInfo `json:"rooms"`
}

// RoomPageResponse returns the active room and its message history.
type RoomPageResponse struct {
	Code     string         `json:"code"`
	Messages []chat.Message `json:"messages"`
}

// StatusResponse is a generic confirmation message.
type StatusResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ErrorResponse is the JSON error envelope for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
