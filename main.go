package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/roomchat/modules/api"
	"github.com/example/roomchat/modules/auth"
	"github.com/example/roomchat/modules/broadcast"
	"github.com/example/roomchat/modules/rooms"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Roomchat - multi-room chat service ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	authModule := auth.NewModule()
	roomsModule := rooms.NewModule()
	broadcastModule := broadcast.NewModule()
	apiModule := api.NewModule()

	// Inject broadcast hub into API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - auth: credential store + session tokens (ServiceProviderModule)
	// - rooms: room registry + history (ServiceProviderModule + EventEmitterModule)
	// - broadcast: event consumer fanning room events out to WebSocket clients
	// - api: driving adapter (Fiber HTTP/WebSocket server, depends on auth and rooms)
	app.Register(authModule)
	app.Register(roomsModule)
	app.Register(broadcastModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health               - Health check")
	log.Println("  POST   /                     - Register or log in (action=register|login)")
	log.Println("  GET    /dashboard            - Rooms visible to the user")
	log.Println("  POST   /dashboard            - Create a room, or join one by code")
	log.Println("  GET    /room                 - Active room and its history")
	log.Println("  POST   /room                 - Switch the active room")
	log.Println("  POST   /logout               - Leave the active room")
	log.Println("  POST   /logout_full          - Clear the session")
	log.Println("  POST   /join_room_from_list  - Join a room from the dashboard list")
	log.Println("  POST   /delete_room          - Delete an owned room")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Authenticate with the session cookie or ?token=<session token>")
	log.Println("  Client events: {\"event\":\"join\"}, {\"event\":\"message\",\"data\":\"...\"}")
	log.Println("  Server frames: {\"name\":...,\"message\":...,\"time\":\"HH:MM:SS\"}")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
