package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsedash/pulsedash/domain"
)

type updatePreferencesRequest struct {
	DashboardPreferences *domain.DashboardPreferences `json:"dashboardPreferences"`
}

type setConnectionRequest struct {
	Platform       domain.Platform    `json:"platform"`
	ConnectionData *domain.Connection `json:"connectionData"`
}

// GetPreferencesHandler returns the caller's dashboard preferences and
// platform connections.
func (a *DashboardAPI) GetPreferencesHandler(c echo.Context) error {
	prefs, err := a.users.GetPreferences(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferencesHandler replaces the caller's dashboard preferences.
func (a *DashboardAPI) UpdatePreferencesHandler(c echo.Context) error {
	var req updatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}
	if req.DashboardPreferences == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing dashboard preferences"})
	}

	prefs, err := a.users.SetPreferences(c.Request().Context(), currentUserID(c), *req.DashboardPreferences)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// SetConnectionHandler upserts one platform connection.
func (a *DashboardAPI) SetConnectionHandler(c echo.Context) error {
	var req setConnectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}
	if req.Platform == "" || req.ConnectionData == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	conns, err := a.users.SetConnection(c.Request().Context(), currentUserID(c), req.Platform, *req.ConnectionData)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, conns)
}

// RemoveConnectionHandler unsets one platform connection.
func (a *DashboardAPI) RemoveConnectionHandler(c echo.Context) error {
	platform := domain.Platform(c.QueryParam("platform"))
	if platform == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing platform parameter"})
	}

	conns, err := a.users.RemoveConnection(c.Request().Context(), currentUserID(c), platform)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, conns)
}
