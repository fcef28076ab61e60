package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "github.com/example/roomchat/domain/user"
	"github.com/gofiber/fiber/v2"
)

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	registerFunc        func(ctx context.Context, username, password string) error
	loginFunc           func(ctx context.Context, username, password string) (string, error)
	issueSessionFunc    func(ctx context.Context, username, room string) (string, error)
	validateSessionFunc func(ctx context.Context, token string) (*domain.Session, error)
}

func (m *mockAuthPort) Register(ctx context.Context, username, password string) error {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, username, password)
	}
	return errors.New("not implemented")
}

func (m *mockAuthPort) Login(ctx context.Context, username, password string) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password)
	}
	return "", errors.New("not implemented")
}

func (m *mockAuthPort) IssueSession(ctx context.Context, username, room string) (string, error) {
	if m.issueSessionFunc != nil {
		return m.issueSessionFunc(ctx, username, room)
	}
	return "", errors.New("not implemented")
}

func (m *mockAuthPort) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.validateSessionFunc != nil {
		return m.validateSessionFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		mockAuth       *mockAuthPort
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no token at all",
			mockAuth:       &mockAuthPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Login required"`,
		},
		{
			name:   "invalid cookie token",
			cookie: "bad-token",
			mockAuth: &mockAuthPort{
				validateSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return nil, errors.New("invalid session token")
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired session"`,
		},
		{
			name:   "valid cookie token",
			cookie: "good-token",
			mockAuth: &mockAuthPort{
				validateSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return &domain.Session{Username: "alice"}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authenticated"`,
		},
		{
			name:       "valid bearer token fallback",
			authHeader: "Bearer good-token",
			mockAuth: &mockAuthPort{
				validateSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					if token != "good-token" {
						return nil, errors.New("invalid session token")
					}
					return &domain.Session{Username: "alice"}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authenticated"`,
		},
		{
			name:           "non-bearer header is ignored",
			authHeader:     "Basic dXNlcjpwdw==",
			mockAuth:       &mockAuthPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Login required"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(SessionMiddleware(tt.mockAuth))
			app.Get("/test", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "authenticated"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}

			if tt.expectedBody != "" && !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %v, want to contain %v", string(body), tt.expectedBody)
			}
		})
	}
}

func TestSessionMiddleware_SessionInContext(t *testing.T) {
	mockAuth := &mockAuthPort{
		validateSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Username: "bob", Room: "ABCDEF"}, nil
		},
	}

	app := fiber.New()
	app.Use(SessionMiddleware(mockAuth))

	var captured *domain.Session
	app.Get("/test", func(c *fiber.Ctx) error {
		session, ok := c.Locals(SessionContextKey).(*domain.Session)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no session"})
		}
		captured = session
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}

	if captured == nil {
		t.Fatal("session not set in context")
	}
	if captured.Username != "bob" {
		t.Errorf("session.Username = %v, want bob", captured.Username)
	}
	if captured.Room != "ABCDEF" {
		t.Errorf("session.Room = %v, want ABCDEF", captured.Room)
	}
}
