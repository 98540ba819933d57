package impact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func testState() *models.BuildingState {
	return &models.BuildingState{
		BuildingID: "bld-1",
		Timestamp:  time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Subsystems: []models.Subsystem{
			{ID: "hvac-1", Type: models.SubsystemHVAC, CurrentLoadPct: 65, MaxCapacityKW: 800, Controllable: true},
			{ID: "light-1", Type: models.SubsystemLighting, CurrentLoadPct: 45, MaxCapacityKW: 200, Controllable: true},
		},
	}
}

func TestApplyActionsRealizedSavings(t *testing.T) {
	sim := New(nil)
	state := testState()

	actions := []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC, ExpectedSavingsKWh: 80},
		{Name: "optimize_lighting_zones", TargetType: models.SubsystemLighting, ExpectedSavingsKWh: 25},
	}

	optimized, savings, results, err := sim.ApplyActions(state, actions)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.InDelta(t, 78.0, results[0].RealizedSavingsKWh, 1e-9)
	assert.InDelta(t, 22.5, results[1].RealizedSavingsKWh, 1e-9)
	assert.InDelta(t, 100.5, savings, 1e-9)

	assert.InDelta(t, 55.25, optimized.Subsystems[0].CurrentLoadPct, 1e-9)
	assert.InDelta(t, 33.75, optimized.Subsystems[1].CurrentLoadPct, 1e-9)
	assert.InDelta(t, 509.5, optimized.TotalConsumptionKW(), 1e-9)

	for _, r := range results {
		assert.Equal(t, models.OutcomeApplied, r.Outcome)
		assert.True(t, r.Applied())
	}
}

func TestApplyActionsInputUntouched(t *testing.T) {
	sim := New(nil)
	state := testState()
	baseline := state.TotalConsumptionKW()

	_, _, _, err := sim.ApplyActions(state, []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC},
	})
	require.NoError(t, err)

	assert.InDelta(t, baseline, state.TotalConsumptionKW(), 1e-9)
	assert.InDelta(t, 65.0, state.Subsystems[0].CurrentLoadPct, 1e-9)
}

func TestApplyActionsOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		subsystems []models.Subsystem
		action     models.OptimizationAction
		want       models.ActionOutcome
	}{
		{
			name:       "no subsystem of target type",
			subsystems: []models.Subsystem{{ID: "h", Type: models.SubsystemHVAC, CurrentLoadPct: 50, MaxCapacityKW: 100, Controllable: true}},
			action:     models.OptimizationAction{Name: "optimize_lighting_zones", TargetType: models.SubsystemLighting},
			want:       models.OutcomeNoTarget,
		},
		{
			name:       "target exists but is not controllable",
			subsystems: []models.Subsystem{{ID: "c", Type: models.SubsystemCompute, CurrentLoadPct: 85, MaxCapacityKW: 300, Controllable: false}},
			action:     models.OptimizationAction{Name: "schedule_compute_tasks", TargetType: models.SubsystemCompute},
			want:       models.OutcomeNotControllable,
		},
		{
			name: "mixed controllable and critical",
			subsystems: []models.Subsystem{
				{ID: "c1", Type: models.SubsystemCompute, CurrentLoadPct: 85, MaxCapacityKW: 300, Controllable: false},
				{ID: "c2", Type: models.SubsystemCompute, CurrentLoadPct: 60, MaxCapacityKW: 100, Controllable: true},
			},
			action: models.OptimizationAction{Name: "schedule_compute_tasks", TargetType: models.SubsystemCompute},
			want:   models.OutcomeApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := New(nil)
			state := &models.BuildingState{BuildingID: "bld-1", Subsystems: tt.subsystems}

			optimized, savings, results, err := sim.ApplyActions(state, []models.OptimizationAction{tt.action})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Outcome)

			if tt.want != models.OutcomeApplied {
				assert.Zero(t, savings)
				assert.InDelta(t, state.TotalConsumptionKW(), optimized.TotalConsumptionKW(), 1e-9)
			}
		})
	}
}

func TestApplyActionsNeverTouchesCriticalLoad(t *testing.T) {
	sim := New(nil)
	state := &models.BuildingState{
		BuildingID: "bld-1",
		Subsystems: []models.Subsystem{
			{ID: "c1", Type: models.SubsystemCompute, CurrentLoadPct: 90, MaxCapacityKW: 500, Controllable: false},
			{ID: "c2", Type: models.SubsystemCompute, CurrentLoadPct: 70, MaxCapacityKW: 200, Controllable: true},
		},
	}

	optimized, _, _, err := sim.ApplyActions(state, []models.OptimizationAction{
		{Name: "schedule_compute_tasks", TargetType: models.SubsystemCompute},
	})
	require.NoError(t, err)

	assert.InDelta(t, 90.0, optimized.Subsystems[0].CurrentLoadPct, 1e-9)
	assert.Less(t, optimized.Subsystems[1].CurrentLoadPct, 70.0)
}

func TestApplyActionsFloorBound(t *testing.T) {
	sim := New(nil)
	// 22% is 2 points above the hvac floor, so the cut clamps to 2.
	state := &models.BuildingState{
		BuildingID: "bld-1",
		Subsystems: []models.Subsystem{
			{ID: "h", Type: models.SubsystemHVAC, CurrentLoadPct: 22, MaxCapacityKW: 100, Controllable: true},
		},
	}

	optimized, _, _, err := sim.ApplyActions(state, []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC},
	})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, optimized.Subsystems[0].CurrentLoadPct, 1e-9)
}

func TestApplyActionsAtFloorIsNoOp(t *testing.T) {
	sim := New(nil)
	state := &models.BuildingState{
		BuildingID: "bld-1",
		Subsystems: []models.Subsystem{
			{ID: "h", Type: models.SubsystemHVAC, CurrentLoadPct: 20, MaxCapacityKW: 100, Controllable: true},
		},
	}

	optimized, savings, results, err := sim.ApplyActions(state, []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC},
	})
	require.NoError(t, err)
	assert.Zero(t, savings)
	assert.Equal(t, models.OutcomeNoHeadroom, results[0].Outcome)
	assert.InDelta(t, 20.0, optimized.Subsystems[0].CurrentLoadPct, 1e-9)
}

func TestApplyActionsRejectsNegativeExpectedSavings(t *testing.T) {
	sim := New(nil)
	state := testState()

	_, _, _, err := sim.ApplyActions(state, []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC, ExpectedSavingsKWh: -5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	// No partial application.
	assert.InDelta(t, 65.0, state.Subsystems[0].CurrentLoadPct, 1e-9)
}

func TestApplyActionsMonotonic(t *testing.T) {
	sim := New(nil)
	state := testState()

	actions := []models.OptimizationAction{
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC},
		{Name: "optimize_hvac_schedule", TargetType: models.SubsystemHVAC},
		{Name: "optimize_lighting_zones", TargetType: models.SubsystemLighting},
	}

	optimized, savings, _, err := sim.ApplyActions(state, actions)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, savings, 0.0)
	assert.LessOrEqual(t, optimized.TotalConsumptionKW(), state.TotalConsumptionKW())
}
