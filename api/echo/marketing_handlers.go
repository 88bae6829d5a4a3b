package echo

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pulsedash/pulsedash/domain"
	"github.com/pulsedash/pulsedash/services"
)

type createMarketingRequest struct {
	Platform domain.Platform `json:"platform"`
	DataType domain.DataType `json:"dataType"`
	Data     json.RawMessage `json:"data"`
}

type updateMarketingRequest struct {
	ID   string                     `json:"id"`
	Data map[string]json.RawMessage `json:"data"`
}

// parseMarketingFilter builds the query filter from request parameters.
// Bad dates are treated as absent, matching a forgiving dashboard client.
func parseMarketingFilter(c echo.Context) domain.MarketingDataFilter {
	filter := domain.MarketingDataFilter{
		Platform: domain.Platform(c.QueryParam("platform")),
		DataType: domain.DataType(c.QueryParam("dataType")),
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.StartDate = t
		} else if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = t
		}
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.EndDate = t
		} else if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = t
		}
	}
	return filter
}

// QueryMarketingHandler returns the caller's metric snapshots newest-first.
func (a *DashboardAPI) QueryMarketingHandler(c echo.Context) error {
	records, err := a.marketing.Query(c.Request().Context(), currentUserID(c), parseMarketingFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	if records == nil {
		records = []*domain.MarketingData{}
	}
	return c.JSON(http.StatusOK, records)
}

// MarketingSummaryHandler aggregates dashboard totals over the filtered set.
func (a *DashboardAPI) MarketingSummaryHandler(c echo.Context) error {
	records, err := a.marketing.Query(c.Request().Context(), currentUserID(c), parseMarketingFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, services.Summarize(records))
}

// CreateMarketingHandler ingests a new metric snapshot.
func (a *DashboardAPI) CreateMarketingHandler(c echo.Context) error {
	var req createMarketingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}

	record, err := a.marketing.Create(c.Request().Context(), currentUserID(c), req.Platform, req.DataType, req.Data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// UpdateMarketingHandler applies a partial merge to a snapshot.
func (a *DashboardAPI) UpdateMarketingHandler(c echo.Context) error {
	var req updateMarketingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}
	if req.ID == "" || len(req.Data) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	record, err := a.marketing.Update(c.Request().Context(), req.ID, currentUserID(c), req.Data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteMarketingHandler removes a snapshot by id.
func (a *DashboardAPI) DeleteMarketingHandler(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing marketing data ID"})
	}

	if err := a.marketing.Delete(c.Request().Context(), id, currentUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
