package scraper

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"causelist-backend/internal/causelist"
	"causelist-backend/internal/shared/server/middleware"
	"causelist-backend/internal/shared/server/respond"
)

const (
	defaultCourtStart = 1
	defaultCourtEnd   = 75
)

// Handler wires HTTP handlers to the scraper service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scraper routes to the router group. All routes
// require an admin role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/scraper")
	grp.Use(middleware.RequireAdmin())

	grp.GET("/discover-courts", h.discoverCourts)
	grp.POST("/fetch-court-data", h.fetchCourtData)
	grp.POST("/stop", h.stop)
	grp.GET("/status", h.status)
	grp.GET("/logs", h.logs)
	grp.GET("/progress", h.progress)
	grp.GET("/dates", h.dates)
}

func (h *Handler) discoverCourts(c *gin.Context) {
	date, err := parseDate(c.Query("target_date"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "target_date must be YYYY-MM-DD", nil)
		return
	}
	c.Set("runDate", date.Format("2006-01-02"))

	start := queryInt(c, "court_start", defaultCourtStart)
	end := queryInt(c, "court_end", defaultCourtEnd)

	summary, err := h.Svc.Discover(c.Request.Context(), date, start, end)
	if err != nil {
		h.respondRunError(c, err, "failed to discover courts")
		return
	}
	respond.OK(c, summary)
}

type fetchCourtDataRequest struct {
	TargetDate   string   `json:"target_date"`
	CourtNumbers []string `json:"court_numbers"`
}

func (h *Handler) fetchCourtData(c *gin.Context) {
	var req fetchCourtDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	date, err := parseDate(req.TargetDate)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "target_date must be YYYY-MM-DD", nil)
		return
	}
	if len(req.CourtNumbers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "court_numbers is required", nil)
		return
	}
	c.Set("runDate", date.Format("2006-01-02"))

	summary, err := h.Svc.FetchCourts(c.Request.Context(), date, req.CourtNumbers)
	if err != nil {
		h.respondRunError(c, err, "failed to fetch court data")
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) stop(c *gin.Context) {
	wasRunning := h.Svc.Stop()
	respond.OK(c, gin.H{
		"message":     "Scraper stop requested",
		"was_running": wasRunning,
	})
}

func (h *Handler) status(c *gin.Context) {
	snapshot, err := h.Svc.Status(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read status", nil)
		return
	}
	respond.OK(c, snapshot)
}

func (h *Handler) logs(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	logs, err := h.Svc.Logs(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read logs", nil)
		return
	}
	if logs == nil {
		logs = []RunLog{}
	}
	respond.OK(c, logs)
}

func (h *Handler) progress(c *gin.Context) {
	respond.OK(c, h.Svc.LiveProgress())
}

func (h *Handler) dates(c *gin.Context) {
	dates, err := h.Svc.AvailableDates(c.Request.Context())
	if err != nil {
		h.respondRunError(c, err, "failed to fetch available dates")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	respond.OK(c, gin.H{"dates": dates})
}

func (h *Handler) respondRunError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		respond.Error(c, http.StatusConflict, "already_running", err.Error(), nil)
	case errors.Is(err, ErrInvalidDate):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, causelist.ErrUnavailable):
		respond.Error(c, http.StatusBadGateway, "upstream_unavailable", err.Error(), nil)
	case errors.Is(err, causelist.ErrMalformed):
		respond.Error(c, http.StatusBadGateway, "upstream_malformed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	return time.Parse("2006-01-02", raw)
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
