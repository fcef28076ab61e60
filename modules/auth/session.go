package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the session token is invalid.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken is returned when the session token has expired.
	ErrExpiredToken = errors.New("session token has expired")
)

// SessionConfig holds session token configuration.
type SessionConfig struct {
	SecretKey string
	Duration  time.Duration
	Issuer    string
}

// DefaultSessionConfig returns a default session configuration.
// In production, the secret key should be loaded from environment variables.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey: "your-secret-key-change-in-production",
		Duration:  24 * time.Hour,
		Issuer:    "roomchat",
	}
}

// SessionClaims are the custom claims carried by a session token: the
// username, and the room code when the user has an active room.
type SessionClaims struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed session tokens.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new SessionManager with the given configuration.
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{
		config: config,
	}
}

// Issue creates a signed session token for the user. An empty room means the
// session has no active room.
func (m *SessionManager) Issue(username, room string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		Room:     room,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Validate verifies the token signature and expiry and returns the claims.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
