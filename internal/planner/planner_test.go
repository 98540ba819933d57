package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func plannerState(hvacLoad, lightingLoad, computeLoad float64) *models.BuildingState {
	return &models.BuildingState{
		BuildingID: "bld-1",
		Timestamp:  time.Now(),
		Subsystems: []models.Subsystem{
			{ID: "hvac-1", Type: models.SubsystemHVAC, CurrentLoadPct: hvacLoad, MaxCapacityKW: 800, Controllable: true},
			{ID: "light-1", Type: models.SubsystemLighting, CurrentLoadPct: lightingLoad, MaxCapacityKW: 200, Controllable: true},
			{ID: "batch-1", Type: models.SubsystemCompute, CurrentLoadPct: computeLoad, MaxCapacityKW: 150, Controllable: true},
			{ID: "dc-1", Type: models.SubsystemCompute, CurrentLoadPct: 90, MaxCapacityKW: 500, Controllable: false},
		},
	}
}

func goodWindow() *models.SustainedWindow {
	return &models.SustainedWindow{
		StartTime:      time.Now().Add(2 * time.Hour),
		EndTime:        time.Now().Add(6 * time.Hour),
		Slots:          4,
		Score:          75,
		Recommendation: models.RecommendationGood,
	}
}

func actionNames(actions []models.OptimizationAction) []string {
	if len(actions) == 0 {
		return nil
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return names
}

func TestPlanRules(t *testing.T) {
	tests := []struct {
		name     string
		hvac     float64
		lighting float64
		compute  float64
		window   *models.SustainedWindow
		want     []string
	}{
		{
			name: "everything high with good window",
			hvac: 75, lighting: 55, compute: 60,
			window: goodWindow(),
			want:   []string{"optimize_hvac_schedule", "optimize_lighting_zones", "schedule_compute_tasks"},
		},
		{
			name: "all loads lean",
			hvac: 40, lighting: 30, compute: 50,
			window: &models.SustainedWindow{Score: 30, Recommendation: models.RecommendationPoor},
			want:   nil,
		},
		{
			name: "only hvac high",
			hvac: 65, lighting: 30, compute: 50,
			window: &models.SustainedWindow{Score: 30, Recommendation: models.RecommendationPoor},
			want:   []string{"optimize_hvac_schedule"},
		},
		{
			name: "poor window blocks compute shifting",
			hvac: 40, lighting: 30, compute: 80,
			window: &models.SustainedWindow{Score: 45, Recommendation: models.RecommendationFair},
			want:   nil,
		},
		{
			name: "nil window blocks compute shifting",
			hvac: 40, lighting: 50, compute: 80,
			window: nil,
			want:   []string{"optimize_lighting_zones"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(Config{})
			actions := engine.Plan(plannerState(tt.hvac, tt.lighting, tt.compute), tt.window)
			assert.Equal(t, tt.want, actionNames(actions))
		})
	}
}

func TestPlanExpectedSavingsMatchPolicy(t *testing.T) {
	engine := NewEngine(Config{})
	actions := engine.Plan(plannerState(65, 30, 50), nil)
	require.Len(t, actions, 1)

	// min(20, 65*0.15) = 9.75 points over 800 kW.
	assert.InDelta(t, 78.0, actions[0].ExpectedSavingsKWh, 1e-9)
	require.NoError(t, actions[0].Validate())
}

func TestPlanCooldown(t *testing.T) {
	engine := NewEngine(Config{CooldownPeriod: time.Hour})
	state := plannerState(75, 55, 60)

	first := engine.Plan(state, goodWindow())
	require.NotEmpty(t, first)

	// Second plan in the same hour is suppressed.
	assert.Empty(t, engine.Plan(state, goodWindow()))

	// Other buildings are unaffected.
	other := plannerState(75, 55, 60)
	other.BuildingID = "bld-2"
	assert.NotEmpty(t, engine.Plan(other, goodWindow()))

	// A reset lifts the cooldown immediately.
	engine.ResetCooldown(state.BuildingID)
	assert.NotEmpty(t, engine.Plan(state, goodWindow()))
}

func TestPlanEmptyPlanKeepsCooldownClear(t *testing.T) {
	engine := NewEngine(Config{CooldownPeriod: time.Hour})
	lean := plannerState(40, 30, 50)

	assert.Empty(t, engine.Plan(lean, nil))

	// A lean pass does not consume the cooldown: a later busy state still
	// gets planned.
	busy := plannerState(75, 55, 60)
	assert.NotEmpty(t, engine.Plan(busy, goodWindow()))
}

func TestPlanIgnoresNonControllableCompute(t *testing.T) {
	engine := NewEngine(Config{})
	state := &models.BuildingState{
		BuildingID: "bld-1",
		Subsystems: []models.Subsystem{
			{ID: "dc-1", Type: models.SubsystemCompute, CurrentLoadPct: 95, MaxCapacityKW: 500, Controllable: false},
		},
	}

	assert.Empty(t, engine.Plan(state, goodWindow()))
}
