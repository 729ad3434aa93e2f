package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"birthdays/internal/models"
)

const (
	sessionUserKey = "user_sub"
	localsUserKey  = "user"
)

// UserLookup resolves the OIDC subject stored in the session.
type UserLookup interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles owner authentication via sessions.
type AuthMiddleware struct {
	users UserLookup
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// RequireAuth ensures the owner is signed in, redirecting to /auth/login if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if m.load(c) == nil {
		if sess := session.FromContext(c); sess != nil {
			sess.Set("redirect_after_login", c.OriginalURL())
		}
		return c.Redirect().To("/auth/login")
	}
	return c.Next()
}

// RequireAuthJSON is RequireAuth for the JSON API: it answers 401 instead
// of redirecting.
func (m *AuthMiddleware) RequireAuthJSON(c fiber.Ctx) error {
	if m.load(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}
	return c.Next()
}

// OptionalAuth loads the owner if signed in, but doesn't require it.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	m.load(c)
	return c.Next()
}

func (m *AuthMiddleware) load(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, ok := sess.Get(sessionUserKey).(string)
	if !ok || sub == "" {
		return nil
	}

	user, err := m.users.GetUserBySub(c.Context(), sub)
	if err != nil {
		// Stale session for a deleted user
		sess.Delete(sessionUserKey)
		return nil
	}

	SetUser(c, user)
	return user
}

// SignIn records the authenticated subject in the session.
func SignIn(c fiber.Ctx, sub string) {
	if sess := session.FromContext(c); sess != nil {
		sess.Set(sessionUserKey, sub)
	}
}

// CurrentUser returns the owner loaded by the middleware, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// SetUser stores user as the current owner for the rest of the request.
func SetUser(c fiber.Ctx, user *models.User) {
	c.Locals(localsUserKey, user)
}
