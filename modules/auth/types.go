package auth

import "time"

// Service names registered in the service container.
const (
	ServiceRegister        = "register"
	ServiceLogin           = "login"
	ServiceIssueSession    = "issue-session"
	ServiceValidateSession = "validate-session"
)

// RegisterRequest is the request for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the reply for a registration request.
type RegisterResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the request for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the session token for a fresh login.
type LoginResponse struct {
	Token string `json:"token"`
}

// IssueSessionRequest is the request for re-issuing a session token with a
// different active room.
type IssueSessionRequest struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}

// IssueSessionResponse returns the re-issued session token.
type IssueSessionResponse struct {
	Token string `json:"token"`
}

// ValidateSessionRequest is the request for session token validation.
type ValidateSessionRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse returns the session state for a valid token.
// Validation failures are reported in the response, not as errors.
type ValidateSessionResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Error    string `json:"error,omitempty"`
}
