package echo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pulsedash/pulsedash/domain"
	"github.com/pulsedash/pulsedash/services"
)

type updateContentRequest struct {
	ID string `json:"id"`
	domain.AIContentPatch
}

// GenerateContentHandler generates a new draft through the gateway.
func (a *DashboardAPI) GenerateContentHandler(c echo.Context) error {
	var req services.GenerateContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}

	record, err := a.content.Generate(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// ListContentHandler returns one page of the caller's drafts.
func (a *DashboardAPI) ListContentHandler(c echo.Context) error {
	filter := domain.AIContentFilter{
		Platform: domain.ContentPlatform(c.QueryParam("platform")),
		Status:   domain.ContentStatus(c.QueryParam("status")),
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := a.content.List(c.Request().Context(), currentUserID(c), filter, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"content": list.Content,
		"pagination": map[string]any{
			"total": list.Total,
			"page":  list.Page,
			"limit": list.Limit,
			"pages": list.Pages,
		},
	})
}

// UpdateContentHandler applies a sparse patch to a draft.
func (a *DashboardAPI) UpdateContentHandler(c echo.Context) error {
	var req updateContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing content ID"})
	}

	record, err := a.content.Update(c.Request().Context(), req.ID, currentUserID(c), req.AIContentPatch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteContentHandler removes a draft by id.
func (a *DashboardAPI) DeleteContentHandler(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing content ID"})
	}

	if err := a.content.Delete(c.Request().Context(), id, currentUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
