package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/simulator"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// ImpactHandler answers what-if queries: apply a caller-supplied action
// list to a freshly simulated state and report the savings, without
// touching the building's pipeline or persisting anything.
type ImpactHandler struct {
	buildingRepo *queries.BuildingRepository
	simulator    *simulator.Simulator
	impact       *impact.Simulator
	providers    ProviderFactory
}

func NewImpactHandler(buildingRepo *queries.BuildingRepository, sim *simulator.Simulator, impactSim *impact.Simulator, providers ProviderFactory) *ImpactHandler {
	return &ImpactHandler{
		buildingRepo: buildingRepo,
		simulator:    sim,
		impact:       impactSim,
		providers:    providers,
	}
}

type SimulateImpactRequest struct {
	Actions   []models.OptimizationAction `json:"actions" binding:"required,min=1"`
	Occupancy *int                        `json:"occupancy,omitempty"`
}

// SimulateImpact godoc
// @Summary Simulate action impact
// @Description Apply a set of optimization actions to the building's current simulated state
// @Tags Impact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Param request body SimulateImpactRequest true "Actions to apply"
// @Success 200 {object} map[string]interface{} "Baseline, optimized state and per-action results"
// @Failure 400 {object} map[string]string "Invalid request or action"
// @Failure 404 {object} map[string]string "Building not found"
// @Failure 502 {object} map[string]string "Weather feed unavailable"
// @Router /buildings/{id}/impact [post]
func (h *ImpactHandler) SimulateImpact(c *gin.Context) {
	var req SimulateImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	building, err := h.buildingRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}
	if building.Topology == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "building has no topology"})
		return
	}

	_, weather := h.providers(building.Region)
	env, err := weather.Weather(ctx, building.Region, time.Now())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather feed unavailable"})
		return
	}

	occupancy := building.Topology.TypicalOccupancy
	if req.Occupancy != nil {
		occupancy = *req.Occupancy
	}

	state, err := h.simulator.SimulateState(building.Topology, occupancy, time.Now().Hour(), env)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	optimized, savings, results, err := h.impact.ApplyActions(state, req.Actions)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id":          building.ID,
		"baseline_kw":          state.TotalConsumptionKW(),
		"optimized_kw":         optimized.TotalConsumptionKW(),
		"realized_savings_kwh": savings,
		"action_results":       results,
	})
}
