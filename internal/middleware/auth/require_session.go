package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Maksimell/shop_backend/internal/session"
)

// ContextUserKey is where RequireSession stores the authenticated user id.
const ContextUserKey = "userID"

type Middleware struct {
	Sessions *session.Service
}

// RequireSession gates protected routes. Handlers behind it can rely on
// UserID(c) returning a valid user id.
func (m *Middleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Please log in")
		}

		userID, err := m.Sessions.Validate(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Please log in")
		}

		c.Set(ContextUserKey, userID)
		return next(c)
	}
}

// UserID resolves the identity placed in the context by RequireSession.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(ContextUserKey).(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Please log in")
	}
	return id, nil
}
