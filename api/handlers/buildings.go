package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
	"github.com/gridpulse/energy-optimizer/pkg/models"
	"github.com/gridpulse/energy-optimizer/pkg/validation"
)

// BuildingManager is the slice of the orchestrator the API needs.
type BuildingManager interface {
	StartBuilding(building *models.Building, forecasts provider.ForecastProvider, weather provider.WeatherProvider) error
	StopBuilding(buildingID string) error
	GetBuildingStatus(buildingID string) (bool, error)
	RunBuildingOnce(ctx context.Context, buildingID string) (*models.OptimizationRun, error)
	SubscribeAllEvents() <-chan *models.Event
}

// ProviderFactory builds the forecast and weather feeds for a region.
// The server decides whether these hit the live feed or the synthetic
// one.
type ProviderFactory func(region string) (provider.ForecastProvider, provider.WeatherProvider)

type BuildingHandler struct {
	buildingRepo *queries.BuildingRepository
	manager      BuildingManager
	providers    ProviderFactory
}

func NewBuildingHandler(buildingRepo *queries.BuildingRepository, manager BuildingManager, providers ProviderFactory) *BuildingHandler {
	return &BuildingHandler{
		buildingRepo: buildingRepo,
		manager:      manager,
		providers:    providers,
	}
}

type CreateBuildingRequest struct {
	Name     string           `json:"name" binding:"required,min=1,max=128" example:"hq-tower"`
	Region   string           `json:"region" binding:"required" example:"NSW1"`
	Topology *models.Topology `json:"topology" binding:"required"`
}

type UpdateBuildingRequest struct {
	Name     string           `json:"name" binding:"omitempty,min=1,max=128"`
	Region   string           `json:"region" binding:"omitempty"`
	Status   string           `json:"status" binding:"omitempty,oneof=active paused"`
	Topology *models.Topology `json:"topology"`
}

// List godoc
// @Summary List buildings
// @Description Get all registered buildings
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of buildings"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	buildings, err := h.buildingRepo.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch buildings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buildings": buildings,
		"count":     len(buildings),
	})
}

// Get godoc
// @Summary Get building
// @Description Get a building by ID
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} models.Building "Building details"
// @Failure 404 {object} map[string]string "Building not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id} [get]
func (h *BuildingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	building, err := h.buildingRepo.GetByID(ctx, id)
	if err != nil {
		if err == queries.ErrBuildingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch building"})
		return
	}

	c.JSON(http.StatusOK, building)
}

// Create godoc
// @Summary Create building
// @Description Register a building and start its optimization pipeline
// @Tags Buildings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBuildingRequest true "Building details"
// @Success 201 {object} models.Building "Building created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Building with this name already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings [post]
func (h *BuildingHandler) Create(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := validation.ValidateBuildingName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateRegion(req.Region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Topology.Subsystems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topology must declare at least one subsystem"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.buildingRepo.GetByName(ctx, req.Name)
	if err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "building with this name already exists"})
		return
	}

	building := models.NewBuilding(req.Name, req.Region, req.Topology)
	building.Topology.BuildingID = building.ID

	if err := h.buildingRepo.Create(ctx, building); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create building"})
		return
	}

	if h.manager != nil && h.providers != nil {
		forecasts, weather := h.providers(building.Region)
		if err := h.manager.StartBuilding(building, forecasts, weather); err != nil {
			c.JSON(http.StatusCreated, gin.H{
				"building": building,
				"warning":  "building created but optimization failed to start: " + err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusCreated, building)
}

// Update godoc
// @Summary Update building
// @Description Update a building's metadata or topology
// @Tags Buildings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Param request body UpdateBuildingRequest true "Fields to update"
// @Success 200 {object} models.Building "Building updated"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Building not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id} [put]
func (h *BuildingHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	building, err := h.buildingRepo.GetByID(ctx, id)
	if err != nil {
		if err == queries.ErrBuildingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch building"})
		return
	}

	if req.Name != "" {
		req.Name = validation.SanitizeString(req.Name)
		if err := validation.ValidateBuildingName(req.Name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		building.Name = req.Name
	}
	if req.Region != "" {
		if err := validation.ValidateRegion(req.Region); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		building.Region = req.Region
	}
	if req.Status != "" {
		building.Status = models.BuildingStatus(req.Status)
	}
	if req.Topology != nil {
		req.Topology.BuildingID = building.ID
		building.Topology = req.Topology
	}

	if err := h.buildingRepo.Update(ctx, building); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update building"})
		return
	}

	c.JSON(http.StatusOK, building)
}

// Delete godoc
// @Summary Delete building
// @Description Stop the building's pipeline and remove it
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} map[string]string "Building deleted"
// @Failure 404 {object} map[string]string "Building not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /buildings/{id} [delete]
func (h *BuildingHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.manager != nil {
		_ = h.manager.StopBuilding(id)
	}

	if err := h.buildingRepo.Delete(ctx, id); err != nil {
		if err == queries.ErrBuildingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete building"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "building deleted"})
}

// Start godoc
// @Summary Start optimization
// @Description Start the optimization pipeline for a building
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} map[string]string "Pipeline started"
// @Failure 404 {object} map[string]string "Building not found"
// @Failure 409 {object} map[string]string "Pipeline already running"
// @Router /buildings/{id}/start [post]
func (h *BuildingHandler) Start(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	building, err := h.buildingRepo.GetByID(ctx, id)
	if err != nil {
		if err == queries.ErrBuildingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch building"})
		return
	}

	forecasts, weather := h.providers(building.Region)
	if err := h.manager.StartBuilding(building, forecasts, weather); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	_ = h.buildingRepo.UpdateStatus(ctx, id, models.BuildingStatusActive)

	c.JSON(http.StatusOK, gin.H{"message": "optimization started"})
}

// Stop godoc
// @Summary Stop optimization
// @Description Stop the optimization pipeline for a building
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} map[string]string "Pipeline stopped"
// @Failure 404 {object} map[string]string "No pipeline running"
// @Router /buildings/{id}/stop [post]
func (h *BuildingHandler) Stop(c *gin.Context) {
	id := c.Param("id")

	if err := h.manager.StopBuilding(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	_ = h.buildingRepo.UpdateStatus(ctx, id, models.BuildingStatusPaused)

	c.JSON(http.StatusOK, gin.H{"message": "optimization stopped"})
}

// GetStatus godoc
// @Summary Get building status
// @Description Get the building record plus its pipeline state
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} map[string]interface{} "Building status"
// @Failure 404 {object} map[string]string "Building not found"
// @Router /buildings/{id}/status [get]
func (h *BuildingHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	building, err := h.buildingRepo.GetByID(ctx, id)
	if err != nil {
		if err == queries.ErrBuildingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch building"})
		return
	}

	running := false
	if h.manager != nil {
		running, _ = h.manager.GetBuildingStatus(id)
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id": building.ID,
		"name":        building.Name,
		"region":      building.Region,
		"status":      building.Status,
		"optimizing":  running,
	})
}

// RunNow godoc
// @Summary Run optimization now
// @Description Trigger an immediate optimization cycle
// @Tags Buildings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Building ID"
// @Success 200 {object} models.OptimizationRun "Completed run"
// @Failure 404 {object} map[string]string "No pipeline running"
// @Failure 500 {object} map[string]string "Cycle failed"
// @Router /buildings/{id}/run [post]
func (h *BuildingHandler) RunNow(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if _, err := h.manager.GetBuildingStatus(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	run, err := h.manager.RunBuildingOnce(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization cycle failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}
