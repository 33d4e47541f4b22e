package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const sessionKey = "dashboard_session"

// Middleware validates bearer tokens and loads sessions.
type Middleware struct {
	tokens   *TokenManager
	sessions *Manager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions *Manager) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions}
}

// Handle enforces a session on protected routes. After a state-changing
// request the session's view settings are persisted.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	s, err := m.sessions.Get(c.UserContext(), claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperrors.NewUnauthorized("session expired")
		}
		return apperrors.MapError(err)
	}

	c.Locals(sessionKey, s)
	err = c.Next()
	if c.Method() != http.MethodGet {
		m.sessions.Persist(c.UserContext(), s)
	}
	return err
}

// FromContext retrieves the session loaded by the middleware.
func FromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	s, ok := val.(*Session)
	return s, ok
}
