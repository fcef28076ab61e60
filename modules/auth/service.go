package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/roomchat/domain/user"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
)

// AuthService handles authentication business logic. Passwords are compared
// verbatim against the stored value.
type AuthService struct {
	repo     *UserRepository
	sessions *SessionManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, sessions *SessionManager) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(_ context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	exists, err := s.repo.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	user := &domain.User{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a session token with no active room.
func (s *AuthService) Login(_ context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if user.Password != password {
		return "", ErrInvalidCredentials
	}

	return s.sessions.Issue(username, "")
}

// IssueSession issues a fresh session token for an already-authenticated
// user, carrying the given room code. Used when the active room changes.
func (s *AuthService) IssueSession(_ context.Context, username, room string) (string, error) {
	return s.sessions.Issue(username, room)
}

// ValidateSession validates a session token and returns the session state.
func (s *AuthService) ValidateSession(_ context.Context, token string) (*domain.Session, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		Username: claims.Username,
		Room:     claims.Room,
	}, nil
}
