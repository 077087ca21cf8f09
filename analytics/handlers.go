package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter gates the collect endpoint per client key. The caller owns
// the policy; the same limiter implementation that guards the site's
// form endpoints works here.
type Limiter interface {
	Allow(key string) bool
}

// Handler handles analytics HTTP requests.
type Handler struct {
	store          *Store
	collectLimiter Limiter
}

// NewHandler creates a new analytics handler. limiter may be nil to
// leave the collect endpoint unthrottled.
func NewHandler(store *Store, limiter Limiter) *Handler {
	return &Handler{
		store:          store,
		collectLimiter: limiter,
	}
}

// CollectRequest is the expected request body for the collect endpoint.
type CollectRequest struct {
	Locale   string `json:"locale"`
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

// Input validation limits for the collect endpoint.
const (
	maxLocaleLen   = 16
	maxPathLen     = 2048
	maxReferrerLen = 2048
)

func validateCollectRequest(req *CollectRequest) error {
	if len(req.Locale) > maxLocaleLen {
		return fmt.Errorf("locale exceeds maximum length of %d", maxLocaleLen)
	}
	if len(req.Path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	}
	if len(req.Referrer) > maxReferrerLen {
		return fmt.Errorf("referrer exceeds maximum length of %d", maxReferrerLen)
	}
	return nil
}

// Collect handles incoming analytics data from clients.
func (h *Handler) Collect(c echo.Context) error {
	// Rate limit by IP to prevent analytics flooding.
	if h.collectLimiter != nil && !h.collectLimiter.Allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	// Honor Do Not Track.
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateCollectRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	userAgent := c.Request().UserAgent()
	ip := c.RealIP()

	// Crawler traffic never lands in the visits table.
	if IsBot(userAgent) {
		return c.NoContent(http.StatusNoContent)
	}

	browser, os, device := ParseUserAgent(userAgent)

	visit := &Visit{
		VisitorID: GenerateVisitorID(ip, userAgent),
		IPHash:    HashIP(ip),
		Browser:   browser,
		OS:        os,
		Device:    device,
		Locale:    req.Locale,
		Path:      req.Path,
		Referrer:  CleanReferrer(req.Referrer),
		Timestamp: time.Now().UTC(),
	}

	if err := h.store.SaveVisit(visit); err != nil {
		c.Logger().Errorf("Failed to save visit: %v", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StatsResponse is the JSON response for the stats endpoint.
type StatsResponse struct {
	Stats      *Stats `json:"stats"`
	Realtime   int    `json:"realtime_visitors"`
	PeriodDays int    `json:"period_days"`
}

// GetStats returns analytics statistics as JSON.
func (h *Handler) GetStats(c echo.Context) error {
	days := parsePeriod(c.QueryParam("period"))

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	to := now.Add(24 * time.Hour).Truncate(24 * time.Hour)

	stats, err := h.store.GetStats(from, to)
	if err != nil {
		c.Logger().Errorf("Failed to get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	realtime, _ := h.store.GetRealtimeVisitors()

	return c.JSON(http.StatusOK, StatsResponse{
		Stats:      stats,
		Realtime:   realtime,
		PeriodDays: days,
	})
}

func parsePeriod(period string) int {
	switch period {
	case "today":
		return 1
	case "week":
		return 7
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}

// RegisterRoutes registers analytics routes with the Echo router.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/analytics/collect", h.Collect)
	e.GET("/api/analytics/stats", h.GetStats)
}
