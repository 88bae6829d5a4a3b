//nolint:varnamelen
package echo

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperr "github.com/pulsedash/pulsedash/errors"
	"github.com/pulsedash/pulsedash/services"
)

// Pinger is the health-check dependency; the mongo client satisfies it via
// a closure in cmd/server.
type Pinger func(ctx context.Context) error

// DashboardAPI struct to hold dependencies. Stores and services are
// injected at construction time; handlers never reach for ambient state.
type DashboardAPI struct {
	auth      *services.AuthService
	sessions  *services.SessionService
	users     *services.UserService
	marketing *services.MarketingService
	content   *services.ContentService
	ping      Pinger
}

// NewDashboardAPI initializes the dashboard API.
func NewDashboardAPI(
	auth *services.AuthService,
	sessions *services.SessionService,
	users *services.UserService,
	marketing *services.MarketingService,
	content *services.ContentService,
	ping Pinger,
) *DashboardAPI {
	return &DashboardAPI{
		auth:      auth,
		sessions:  sessions,
		users:     users,
		marketing: marketing,
		content:   content,
		ping:      ping,
	}
}

// RegisterRoutes registers all dashboard routes.
func (a *DashboardAPI) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", a.HealthHandler)

	e.POST("/auth/register", a.RegisterHandler)
	e.POST("/auth/login", a.LoginHandler)
	e.POST("/auth/logout", a.LogoutHandler)
	e.GET("/auth/:provider", a.OAuthBeginHandler)
	e.GET("/auth/:provider/callback", a.OAuthCallbackHandler)

	authed := e.Group("", a.SessionMiddleware)

	authed.POST("/ai/content", a.GenerateContentHandler)
	authed.GET("/ai/content", a.ListContentHandler)
	authed.PUT("/ai/content", a.UpdateContentHandler)
	authed.DELETE("/ai/content", a.DeleteContentHandler)

	authed.GET("/marketing", a.QueryMarketingHandler)
	authed.GET("/marketing/summary", a.MarketingSummaryHandler)
	authed.POST("/marketing", a.CreateMarketingHandler)
	authed.PUT("/marketing", a.UpdateMarketingHandler)
	authed.DELETE("/marketing", a.DeleteMarketingHandler)

	authed.GET("/user/preferences", a.GetPreferencesHandler)
	authed.PUT("/user/preferences", a.UpdatePreferencesHandler)
	authed.POST("/user/preferences", a.SetConnectionHandler)
	authed.DELETE("/user/preferences", a.RemoveConnectionHandler)
}

// HealthHandler reports liveness of the process and its database.
func (a *DashboardAPI) HealthHandler(c echo.Context) error {
	if a.ping != nil {
		if err := a.ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// writeError translates an application error into an HTTP response. Only
// the sanitized description leaves the process; internals are logged.
func writeError(c echo.Context, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperr.CodeValidation:
		status = http.StatusBadRequest
	case apperr.CodeUnauthorized:
		status = http.StatusUnauthorized
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeConflict:
		status = http.StatusConflict
	case apperr.CodeGenerationFailed:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.JSON(status, map[string]string{"error": appErr.Description})
}
