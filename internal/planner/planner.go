package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

type Config struct {
	CooldownPeriod        time.Duration
	HVACHighThreshold     float64
	LightingHighThreshold float64
	ComputeWindowMinScore float64
	Policy                impact.Policy
}

// Engine is the rule-based action source. It inspects a simulated state
// and the current best window and proposes optimization actions, holding
// a per-building cooldown so the same building is not re-planned every
// cycle.
type Engine struct {
	config        Config
	lastPlanTimes map[string]time.Time
	mu            sync.RWMutex
}

func NewEngine(cfg Config) *Engine {
	if cfg.CooldownPeriod == 0 {
		cfg.CooldownPeriod = 5 * time.Minute
	}
	if cfg.HVACHighThreshold == 0 {
		cfg.HVACHighThreshold = 60.0
	}
	if cfg.LightingHighThreshold == 0 {
		cfg.LightingHighThreshold = 40.0
	}
	if cfg.ComputeWindowMinScore == 0 {
		cfg.ComputeWindowMinScore = 60.0
	}
	if cfg.Policy == nil {
		cfg.Policy = impact.DefaultPolicy()
	}

	return &Engine{
		config:        cfg,
		lastPlanTimes: make(map[string]time.Time),
	}
}

// Plan proposes actions for the building. A nil best window disables the
// compute shifting rule. An empty plan is normal and means the building is
// already running lean or the cooldown is active.
func (e *Engine) Plan(state *models.BuildingState, best *models.SustainedWindow) []models.OptimizationAction {
	if e.isInCooldown(state.BuildingID) {
		logger.WithBuilding(state.BuildingID).Debug("Plan: skip (cooldown active)")
		return nil
	}

	var actions []models.OptimizationAction

	if action, ok := e.hvacAction(state); ok {
		actions = append(actions, action)
	}
	if action, ok := e.lightingAction(state); ok {
		actions = append(actions, action)
	}
	if action, ok := e.computeAction(state, best); ok {
		actions = append(actions, action)
	}

	if len(actions) > 0 {
		e.recordPlanTime(state.BuildingID)
		logger.WithBuilding(state.BuildingID).Infof("Plan: %d actions proposed", len(actions))
	}

	return actions
}

func (e *Engine) hvacAction(state *models.BuildingState) (models.OptimizationAction, bool) {
	load, capKW, ok := controllableLoad(state, models.SubsystemHVAC)
	if !ok || load <= e.config.HVACHighThreshold {
		return models.OptimizationAction{}, false
	}

	return models.OptimizationAction{
		Name:               "optimize_hvac_schedule",
		TargetType:         models.SubsystemHVAC,
		ExpectedSavingsKWh: e.expectedSavings(models.SubsystemHVAC, load, capKW),
		Reasoning:          fmt.Sprintf("hvac load %.1f%% above %.0f%% threshold", load, e.config.HVACHighThreshold),
	}, true
}

func (e *Engine) lightingAction(state *models.BuildingState) (models.OptimizationAction, bool) {
	load, capKW, ok := controllableLoad(state, models.SubsystemLighting)
	if !ok || load <= e.config.LightingHighThreshold {
		return models.OptimizationAction{}, false
	}

	return models.OptimizationAction{
		Name:               "optimize_lighting_zones",
		TargetType:         models.SubsystemLighting,
		ExpectedSavingsKWh: e.expectedSavings(models.SubsystemLighting, load, capKW),
		Reasoning:          fmt.Sprintf("lighting load %.1f%% above %.0f%% threshold", load, e.config.LightingHighThreshold),
	}, true
}

// computeAction shifts flexible compute into the best sustained window.
// Only fires when the window is genuinely attractive.
func (e *Engine) computeAction(state *models.BuildingState, best *models.SustainedWindow) (models.OptimizationAction, bool) {
	if best == nil || best.Score < e.config.ComputeWindowMinScore {
		return models.OptimizationAction{}, false
	}

	load, capKW, ok := controllableLoad(state, models.SubsystemCompute)
	if !ok {
		return models.OptimizationAction{}, false
	}

	return models.OptimizationAction{
		Name:               "schedule_compute_tasks",
		TargetType:         models.SubsystemCompute,
		ExpectedSavingsKWh: e.expectedSavings(models.SubsystemCompute, load, capKW),
		Reasoning: fmt.Sprintf("window %s scores %.1f (%s)",
			best.StartTime.Format(time.RFC3339), best.Score, best.Recommendation),
	}, true
}

// expectedSavings mirrors the impact policy so the plan's estimate lines
// up with what the simulator will realize.
func (e *Engine) expectedSavings(st models.SubsystemType, avgLoadPct, totalCapKW float64) float64 {
	rule, ok := e.config.Policy[st]
	if !ok {
		return 0
	}
	return rule.ReductionFor(avgLoadPct) / 100 * totalCapKW
}

// controllableLoad returns the capacity-weighted average load and total
// capacity of the controllable subsystems of one type.
func controllableLoad(state *models.BuildingState, st models.SubsystemType) (avgLoadPct, totalCapKW float64, ok bool) {
	var loadKW float64
	for i := range state.Subsystems {
		sub := &state.Subsystems[i]
		if sub.Type != st || !sub.Controllable || sub.MaxCapacityKW <= 0 {
			continue
		}
		loadKW += sub.ConsumptionKW()
		totalCapKW += sub.MaxCapacityKW
	}
	if totalCapKW == 0 {
		return 0, 0, false
	}
	return loadKW / totalCapKW * 100, totalCapKW, true
}

func (e *Engine) isInCooldown(buildingID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	last, ok := e.lastPlanTimes[buildingID]
	return ok && time.Since(last) < e.config.CooldownPeriod
}

func (e *Engine) recordPlanTime(buildingID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastPlanTimes[buildingID] = time.Now()
}

// ResetCooldown clears the cooldown for a building, used when an operator
// forces a re-plan.
func (e *Engine) ResetCooldown(buildingID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.lastPlanTimes, buildingID)
}
