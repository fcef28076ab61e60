package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/roomchat/modules/auth"
	"github.com/example/roomchat/modules/broadcast"
	"github.com/example/roomchat/modules/rooms"
	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module with WebSocket support.
type APIModule struct {
	app          *fiber.App
	authAdapter  auth.AuthPort
	roomsAdapter rooms.RoomsPort
	hub          *broadcast.Hub
	port         string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{
		port: port,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "rooms"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "rooms":
		m.roomsAdapter = rooms.NewRoomsAdapter(container)
	}
}

// SetHub sets the broadcast hub (called from main.go).
func (m *APIModule) SetHub(hub *broadcast.Hub) {
	m.hub = hub
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth adapter dependency not set")
	}
	if m.roomsAdapter == nil {
		return fmt.Errorf("rooms adapter dependency not set")
	}
	if m.hub == nil {
		return fmt.Errorf("broadcast hub dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	m.app.Use(recover.New())
	m.app.Use(loggerMiddleware())
	m.app.Use(cors.New(corsConfig()))

	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":              m.port,
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// Entry point: register or login
	m.app.Get("/", m.homeHandler)
	m.app.Post("/", m.authEntry)

	// Full logout only needs the cookie cleared, no valid session required
	m.app.Post("/logout_full", m.logoutFull)

	// Everything below requires a valid session
	session := m.app.Group("", SessionMiddleware(m.authAdapter))
	session.Get("/dashboard", m.dashboard)
	session.Post("/dashboard", m.dashboardAction)
	session.Get("/room", m.roomPage)
	session.Post("/room", m.roomSwitch)
	session.Post("/logout", m.logout)
	session.Post("/join_room_from_list", m.joinFromList)
	session.Post("/delete_room", m.deleteRoom)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

// loggerMiddleware returns a Fiber middleware for request logging.
func loggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for WebSocket upgrade requests
		if c.Get("Upgrade") == "websocket" {
			return c.Next()
		}
		err := c.Next()
		log.Printf("[api] %s %s %d", c.Method(), c.Path(), c.Response().StatusCode())
		return err
	}
}

// corsConfig builds the CORS configuration from the environment.
func corsConfig() cors.Config {
	config := cors.ConfigDefault
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.AllowOrigins = origins
	}
	return config
}
