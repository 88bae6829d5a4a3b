package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// userIDContextKey is where the session middleware stores the resolved
	// user id on the echo context.
	userIDContextKey = "auth-user-id"

	// SessionCookieName carries the session token for browser clients; API
	// clients send it as a Bearer token instead.
	SessionCookieName = "pulsedash_session"
)

// extractToken pulls the session token from the Authorization header or the
// session cookie.
func extractToken(c echo.Context) string {
	const prefix = "Bearer "
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimPrefix(auth, prefix)
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware resolves the caller's user id from the session token
// before the handler touches any store. Requests without a valid session
// subject get 401.
func (a *DashboardAPI) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		userID, err := a.sessions.ValidateSession(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// currentUserID returns the user id the session middleware resolved.
func currentUserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
