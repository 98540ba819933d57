package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/models"
	"github.com/gridpulse/energy-optimizer/pkg/validation"
)

// WindowHandler answers ad-hoc window queries for a region without
// needing a registered building.
type WindowHandler struct {
	scorer    *windows.Scorer
	providers ProviderFactory
	engine    config.EngineConfig
}

func NewWindowHandler(scorer *windows.Scorer, providers ProviderFactory, engine config.EngineConfig) *WindowHandler {
	return &WindowHandler{
		scorer:    scorer,
		providers: providers,
		engine:    engine,
	}
}

func (h *WindowHandler) fetchSeries(ctx context.Context, region string) (models.ForecastSeries, error) {
	forecasts, _ := h.providers(region)

	slots := h.engine.ForecastSlots
	if slots == 0 {
		slots = 24
	}
	slotLen := h.engine.SlotLength
	if slotLen == 0 {
		slotLen = time.Hour
	}

	return forecasts.Forecast(ctx, region, time.Now().Truncate(slotLen), slots, slotLen)
}

// GetWindows godoc
// @Summary Rank windows
// @Description Score the region's forecast and return the best and worst windows
// @Tags Windows
// @Produce json
// @Security BearerAuth
// @Param region path string true "Grid region code"
// @Param top query int false "Number of best windows"
// @Param bottom query int false "Number of worst windows"
// @Param w_renewable query number false "Renewable weight (all four weights required together, must sum to 1)"
// @Param w_carbon query number false "Carbon weight"
// @Param w_price query number false "Price weight"
// @Param w_secondary query number false "Secondary price weight"
// @Success 200 {object} map[string]interface{} "Ranked windows"
// @Failure 400 {object} map[string]string "Invalid region or weights"
// @Failure 502 {object} map[string]string "Forecast feed unavailable"
// @Router /regions/{region}/windows [get]
func (h *WindowHandler) GetWindows(c *gin.Context) {
	region := c.Param("region")
	if err := validation.ValidateRegion(region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scorer, err := h.scorerFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topN := parseQueryInt(c, "top", h.engine.TopN)
	bottomN := parseQueryInt(c, "bottom", h.engine.BottomN)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	series, err := h.fetchSeries(ctx, region)
	if err != nil {
		h.feedError(c, err)
		return
	}

	best, worst, err := scorer.RankWindows(ctx, series, topN, bottomN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rank windows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"best":   best,
		"worst":  worst,
	})
}

// GetSustained godoc
// @Summary Best sustained window
// @Description Find the best contiguous block of slots in the region's forecast
// @Tags Windows
// @Produce json
// @Security BearerAuth
// @Param region path string true "Grid region code"
// @Param slots query int false "Block length in slots"
// @Success 200 {object} models.SustainedWindow "Best sustained window"
// @Failure 400 {object} map[string]string "Invalid region or block length"
// @Failure 502 {object} map[string]string "Forecast feed unavailable"
// @Router /regions/{region}/windows/sustained [get]
func (h *WindowHandler) GetSustained(c *gin.Context) {
	region := c.Param("region")
	if err := validation.ValidateRegion(region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots := parseQueryInt(c, "slots", h.engine.SustainedSlots)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	series, err := h.fetchSeries(ctx, region)
	if err != nil {
		h.feedError(c, err)
		return
	}

	sustained, err := h.scorer.BestSustainedWindow(series, slots)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find sustained window"})
		return
	}

	c.JSON(http.StatusOK, sustained)
}

// scorerFor returns the handler's default scorer, or one built from the
// caller's weight overrides. Overrides are all-or-nothing: providing any
// weight requires providing all four.
func (h *WindowHandler) scorerFor(c *gin.Context) (*windows.Scorer, error) {
	keys := []string{"w_renewable", "w_carbon", "w_price", "w_secondary"}
	present := 0
	values := make([]float64, len(keys))
	for i, key := range keys {
		s := c.Query(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", key, s)
		}
		values[i] = v
		present++
	}
	if present == 0 {
		return h.scorer, nil
	}
	if present != len(keys) {
		return nil, fmt.Errorf("weight overrides require all of %v", keys)
	}

	return windows.NewScorer(
		windows.Weights{Renewable: values[0], Carbon: values[1], Price: values[2], Secondary: values[3]},
		windows.References{
			PricePerMWh:    h.engine.References.PricePerMWh,
			SecondaryPrice: h.engine.References.SecondaryPrice,
			CarbonCeiling:  h.engine.References.CarbonCeiling,
		},
	)
}

func (h *WindowHandler) feedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, provider.ErrRegionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown region"})
	case errors.Is(err, provider.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "forecast feed timed out"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "forecast feed unavailable"})
	}
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if s := c.Query(key); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}
