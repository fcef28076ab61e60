package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/roomchat/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides the credential store and session token services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	dbPath := os.Getenv("ROOMCHAT_DB_PATH")
	if dbPath == "" {
		dbPath = "roomchat.db"
	}
	return &AuthModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	sessions := NewSessionManager(loadSessionConfig())
	m.service = NewAuthService(repo, sessions)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceRegister,
		json.Unmarshal,
		json.Marshal,
		m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRegister, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceLogin,
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceLogin, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceIssueSession,
		json.Unmarshal,
		json.Marshal,
		m.handleIssueSession,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceIssueSession, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceValidateSession,
		json.Unmarshal,
		json.Marshal,
		m.handleValidateSession,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceValidateSession, err)
	}

	log.Printf("[auth] Registered services: %s, %s, %s, %s",
		ServiceRegister, ServiceLogin, ServiceIssueSession, ServiceValidateSession)
	return nil
}

// handleRegister handles user registration.
func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	token, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{Token: token}, nil
}

// handleIssueSession re-issues a session token with a new active room.
func (m *AuthModule) handleIssueSession(ctx context.Context, req IssueSessionRequest, _ *mono.Msg) (IssueSessionResponse, error) {
	token, err := m.service.IssueSession(ctx, req.Username, req.Room)
	if err != nil {
		return IssueSessionResponse{}, err
	}

	return IssueSessionResponse{Token: token}, nil
}

// handleValidateSession handles session token validation.
func (m *AuthModule) handleValidateSession(ctx context.Context, req ValidateSessionRequest, _ *mono.Msg) (ValidateSessionResponse, error) {
	session, err := m.service.ValidateSession(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateSessionResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for validation failures
	}

	return ValidateSessionResponse{
		Valid:    true,
		Username: session.Username,
		Room:     session.Room,
	}, nil
}

// loadSessionConfig loads session configuration from environment variables.
func loadSessionConfig() SessionConfig {
	config := DefaultSessionConfig()

	if secret := os.Getenv("SESSION_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("SESSION_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			config.Duration = d
		}
	}

	return config
}
