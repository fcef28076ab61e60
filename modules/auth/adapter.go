package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/roomchat/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use to access auth
// functionality.
type AuthPort interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	IssueSession(ctx context.Context, username, room string) (string, error)
	ValidateSession(ctx context.Context, token string) (*domain.Session, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates a new user account.
func (a *AuthAdapter) Register(ctx context.Context, username, password string) error {
	req := RegisterRequest{Username: username, Password: password}
	var resp RegisterResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceRegister,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	return nil
}

// Login authenticates a user and returns a session token.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (string, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceLogin,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	return resp.Token, nil
}

// IssueSession re-issues a session token carrying the given room code.
func (a *AuthAdapter) IssueSession(ctx context.Context, username, room string) (string, error) {
	req := IssueSessionRequest{Username: username, Room: room}
	var resp IssueSessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceIssueSession,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("issue-session request failed: %w", err)
	}
	return resp.Token, nil
}

// ValidateSession validates a session token and returns the session state.
func (a *AuthAdapter) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	req := ValidateSessionRequest{Token: token}
	var resp ValidateSessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceValidateSession,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-session request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("session validation failed: %s", resp.Error)
	}

	return &domain.Session{
		Username: resp.Username,
		Room:     resp.Room,
	}, nil
}
