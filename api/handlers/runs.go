package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

type RunHandler struct {
	runRepo   *queries.RunRepository
	eventRepo *queries.EventRepository
	snapshots cache.Service
	config    *config.APIConfig
}

func NewRunHandler(runRepo *queries.RunRepository, eventRepo *queries.EventRepository, snapshots cache.Service, cfg *config.APIConfig) *RunHandler {
	return &RunHandler{
		runRepo:   runRepo,
		eventRepo: eventRepo,
		snapshots: snapshots,
		config:    cfg,
	}
}

func (h *RunHandler) getDefaultLimit() int {
	if h.config != nil && h.config.DefaultLimit > 0 {
		return h.config.DefaultLimit
	}
	return 100
}

func (h *RunHandler) getMaxLimit() int {
	if h.config != nil && h.config.MaxLimit > 0 {
		return h.config.MaxLimit
	}
	return 1000
}

// GetRuns godoc
// @Summary Run history
// @Description Get past optimization runs for a building
// @Tags Runs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Param range query string false "Relative range, e.g. 24h or 7d"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Run history"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id}/runs [get]
func (h *RunHandler) GetRuns(c *gin.Context) {
	buildingID := c.Param("id")

	since := h.parseSince(c)
	limit := h.parseLimit(c, h.getDefaultLimit())
	ctx := c.Request.Context()

	runs, err := h.runRepo.GetHistory(ctx, buildingID, since, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id": buildingID,
		"since":       since,
		"data":        runs,
		"count":       len(runs),
	})
}

// GetLatestRun godoc
// @Summary Latest run
// @Description Get the most recent optimization run for a building
// @Tags Runs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} models.OptimizationRun "Latest run"
// @Failure 404 {object} map[string]string "No runs found"
// @Router /buildings/{id}/runs/latest [get]
func (h *RunHandler) GetLatestRun(c *gin.Context) {
	buildingID := c.Param("id")
	ctx := c.Request.Context()

	// The pipeline caches its latest run, so most reads never touch the
	// database.
	if h.snapshots != nil {
		var cached models.OptimizationRun
		if err := h.snapshots.Get(ctx, "run:"+buildingID, &cached); err == nil {
			c.JSON(http.StatusOK, &cached)
			return
		}
	}

	runs, err := h.runRepo.GetHistory(ctx, buildingID, time.Time{}, 1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch runs"})
		return
	}
	if len(runs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs found"})
		return
	}

	c.JSON(http.StatusOK, runs[0])
}

// GetSavings godoc
// @Summary Savings summary
// @Description Get total realized savings for a building over a range
// @Tags Runs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Param range query string false "Relative range, e.g. 24h or 7d"
// @Success 200 {object} map[string]interface{} "Savings summary"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id}/savings [get]
func (h *RunHandler) GetSavings(c *gin.Context) {
	buildingID := c.Param("id")
	since := h.parseSince(c)
	ctx := c.Request.Context()

	total, err := h.runRepo.TotalSavings(ctx, buildingID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch savings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id":     buildingID,
		"since":           since,
		"total_saved_kwh": total,
	})
}

// GetEvents godoc
// @Summary Building events
// @Description Get recent events for a building
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Events"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id}/events [get]
func (h *RunHandler) GetEvents(c *gin.Context) {
	buildingID := c.Param("id")
	limit := h.parseLimit(c, 50)
	ctx := c.Request.Context()

	events, err := h.eventRepo.GetRecent(ctx, buildingID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id": buildingID,
		"data":        events,
		"count":       len(events),
	})
}

// GetRecentEvents godoc
// @Summary Recent events
// @Description Get recent events across all buildings
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Events"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /events/recent [get]
func (h *RunHandler) GetRecentEvents(c *gin.Context) {
	limit := h.parseLimit(c, 20)
	ctx := c.Request.Context()

	events, err := h.eventRepo.GetRecent(ctx, "", limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  events,
		"count": len(events),
	})
}

func (h *RunHandler) parseSince(c *gin.Context) time.Time {
	now := time.Now()
	since := now.Add(-24 * time.Hour)

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			since = parsed
		}
	}

	if rangeStr := c.Query("range"); rangeStr != "" {
		since = now.Add(-parseDuration(rangeStr))
	}

	return since
}

func (h *RunHandler) parseLimit(c *gin.Context, defaultLimit int) int {
	maxLimit := h.getMaxLimit()
	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}
	return limit
}

func parseDuration(s string) time.Duration {
	if len(s) < 2 {
		return time.Hour
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Hour
	}

	switch unit {
	case 'm':
		return time.Duration(value) * time.Minute
	case 'h':
		return time.Duration(value) * time.Hour
	case 'd':
		return time.Duration(value) * 24 * time.Hour
	default:
		return time.Hour
	}
}
