package api

import (
	"strings"

	"github.com/example/roomchat/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionContextKey is the key used to store the session in the Fiber
	// context.
	SessionContextKey = "session"

	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "session"
)

// SessionMiddleware creates a middleware that validates session tokens. The
// token is read from the session cookie, with an Authorization Bearer header
// accepted as a fallback for non-browser clients.
func SessionMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Login required",
			})
		}

		session, err := authAdapter.ValidateSession(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session",
			})
		}

		c.Locals(SessionContextKey, session)
		return c.Next()
	}
}
