package api

import (
	"log"
	"strings"
	"time"

	domain "github.com/example/roomchat/domain/user"
	"github.com/gofiber/fiber/v2"
)

// homeHandler handles GET /. It points clients at the auth entry point.
func (m *APIModule) homeHandler(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Message: "POST username, password and action (register or login) to this endpoint",
	})
}

// authEntry handles POST /: registration and login share the endpoint, with
// the action field selecting between them.
func (m *APIModule) authEntry(c *fiber.Ctx) error {
	var req AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	}

	switch req.Action {
	case ActionRegister:
		if err := m.authAdapter.Register(c.UserContext(), req.Username, req.Password); err != nil {
			return m.handleAuthError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(RegisteredResponse{
			Username: req.Username,
			Message:  "Account created, you can now log in",
		})

	case ActionLogin:
		token, err := m.authAdapter.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return m.handleAuthError(c, err)
		}
		m.setSessionCookie(c, token)
		return c.Status(fiber.StatusOK).JSON(TokenResponse{Token: token})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Action must be register or login",
		})
	}
}

// dashboard handles GET /dashboard: the rooms visible to the user.
func (m *APIModule) dashboard(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	roomList, err := m.roomsAdapter.ListVisible(c.UserContext(), session.Username)
	if err != nil {
		return m.handleRoomsError(c, err)
	}

	return c.JSON(DashboardResponse{
		Username: session.Username,
		Rooms:    roomList,
	})
}

// dashboardAction handles POST /dashboard: create a room, or join one by
// code. A non-empty create field takes precedence.
func (m *APIModule) dashboardAction(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	var req DashboardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Create != "" {
		info, err := m.roomsAdapter.CreateRoom(c.UserContext(), session.Username)
		if err != nil {
			return m.handleRoomsError(c, err)
		}

		token, err := m.authAdapter.IssueSession(c.UserContext(), session.Username, info.Code)
		if err != nil {
			return m.handleAuthError(c, err)
		}
		m.setSessionCookie(c, token)

		return c.Status(fiber.StatusCreated).JSON(RoomJoinedResponse{
			Code:  info.Code,
			Token: token,
		})
	}

	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Room code is required to join",
		})
	}

	return m.activateRoom(c, session, req.Code)
}

// roomPage handles GET /room: the active room and its history.
func (m *APIModule) roomPage(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	if session.Room == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "No active room, join one from the dashboard",
		})
	}

	messages, err := m.roomsAdapter.GetHistory(c.UserContext(), session.Room)
	if err != nil {
		return m.handleRoomsError(c, err)
	}

	return c.JSON(RoomPageResponse{
		Code:     session.Room,
		Messages: messages,
	})
}

// roomSwitch handles POST /room: switch the active room by code.
func (m *APIModule) roomSwitch(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	var req CodeRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Room code is required",
		})
	}

	return m.activateRoom(c, session, req.Code)
}

// joinFromList handles POST /join_room_from_list: join a room shown on the
// dashboard.
func (m *APIModule) joinFromList(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	var req CodeRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Room code is required",
		})
	}

	return m.activateRoom(c, session, req.Code)
}

// logout handles POST /logout: leave the active room but keep the login.
func (m *APIModule) logout(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	if session.Room != "" {
		if err := m.roomsAdapter.LeaveRoom(c.UserContext(), session.Room, session.Username); err != nil {
			log.Printf("[api] Failed to leave room %s for %s: %v", session.Room, session.Username, err)
		}
	}

	token, err := m.authAdapter.IssueSession(c.UserContext(), session.Username, "")
	if err != nil {
		return m.handleAuthError(c, err)
	}
	m.setSessionCookie(c, token)

	return c.JSON(StatusResponse{
		Message: "Left the room",
		Token:   token,
	})
}

// logoutFull handles POST /logout_full: clear the session entirely.
func (m *APIModule) logoutFull(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(StatusResponse{Message: "Logged out"})
}

// deleteRoom handles POST /delete_room: owner-only room deletion.
func (m *APIModule) deleteRoom(c *fiber.Ctx) error {
	session := m.sessionFrom(c)
	if session == nil {
		return m.noSession(c)
	}

	var req CodeRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Room code is required",
		})
	}

	if err := m.roomsAdapter.DeleteRoom(c.UserContext(), req.Code, session.Username); err != nil {
		return m.handleRoomsError(c, err)
	}

	// Drop the active room from the session if it was the deleted one
	if session.Room == req.Code {
		token, err := m.authAdapter.IssueSession(c.UserContext(), session.Username, "")
		if err != nil {
			return m.handleAuthError(c, err)
		}
		m.setSessionCookie(c, token)
	}

	return c.JSON(StatusResponse{Message: "Room deleted"})
}

// activateRoom adds the room to the user's dashboard and re-issues the
// session with it as the active room. Every join path funnels through here.
func (m *APIModule) activateRoom(c *fiber.Ctx, session *domain.Session, code string) error {
	if err := m.roomsAdapter.JoinRoom(c.UserContext(), code, session.Username); err != nil {
		return m.handleRoomsError(c, err)
	}

	token, err := m.authAdapter.IssueSession(c.UserContext(), session.Username, code)
	if err != nil {
		return m.handleAuthError(c, err)
	}
	m.setSessionCookie(c, token)

	return c.JSON(RoomJoinedResponse{
		Code:  code,
		Token: token,
	})
}

// sessionFrom extracts the validated session placed by the middleware.
func (m *APIModule) sessionFrom(c *fiber.Ctx) *domain.Session {
	session, ok := c.Locals(SessionContextKey).(*domain.Session)
	if !ok {
		return nil
	}
	return session
}

func (m *APIModule) noSession(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "Login required",
	})
}

// setSessionCookie stores the session token in the session cookie.
func (m *APIModule) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// handleAuthError maps auth service errors to HTTP responses. Error messages
// cross the service container as strings, so matching is textual.
func (m *APIModule) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid username or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid username or password",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this username already exists",
		})
	case strings.Contains(errStr, "username and password are required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleRoomsError maps rooms service errors to HTTP responses.
func (m *APIModule) handleRoomsError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "room not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Room does not exist",
		})
	case strings.Contains(errStr, "only the room owner"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Only the room owner can delete the room",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
