package impact

import (
	"fmt"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// ReductionRule bounds how far a single action may push a subsystem type.
type ReductionRule struct {
	// CapPts is the absolute ceiling on the reduction, in load points.
	CapPts float64
	// Fraction is the share of the current load an action may shed.
	Fraction float64
	// FloorPct is the load the subsystem may never drop below.
	FloorPct float64
}

// Policy maps subsystem types to their reduction rules. Types without a
// rule cannot be reduced.
type Policy map[models.SubsystemType]ReductionRule

// DefaultPolicy returns the stock reduction rules.
func DefaultPolicy() Policy {
	return Policy{
		models.SubsystemHVAC:     {CapPts: 20, Fraction: 0.15, FloorPct: 20},
		models.SubsystemLighting: {CapPts: 30, Fraction: 0.25, FloorPct: 10},
		models.SubsystemCompute:  {CapPts: 15, Fraction: 0.10, FloorPct: 30},
	}
}

// Simulator applies optimization actions to a building state and reports
// the realized savings. It is a pure transformation: the input state is
// never touched, and the optimized state's consumption never exceeds the
// baseline.
type Simulator struct {
	policy Policy
}

func New(policy Policy) *Simulator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Simulator{policy: policy}
}

// ApplyActions returns the optimized state, the total realized savings in
// kWh, and a per-action result list. Actions that target an absent or
// non-controllable subsystem type are recorded as zero-impact results and
// do not stop processing. A negative expected_savings_kwh fails the whole
// call before any action is applied.
func (s *Simulator) ApplyActions(state *models.BuildingState, actions []models.OptimizationAction) (*models.BuildingState, float64, []models.ActionResult, error) {
	for _, action := range actions {
		if err := action.Validate(); err != nil {
			return nil, 0, nil, err
		}
	}

	optimized := state.Clone()
	results := make([]models.ActionResult, 0, len(actions))
	var totalSavings float64

	for _, action := range actions {
		result := s.applyOne(optimized, action)
		totalSavings += result.RealizedSavingsKWh
		results = append(results, result)
	}

	logger.WithBuilding(state.BuildingID).Debugf(
		"Applied %d actions: %.1f kW -> %.1f kW (%.1f kWh saved)",
		len(actions), state.TotalConsumptionKW(), optimized.TotalConsumptionKW(), totalSavings,
	)

	return optimized, totalSavings, results, nil
}

func (s *Simulator) applyOne(state *models.BuildingState, action models.OptimizationAction) models.ActionResult {
	result := models.ActionResult{Action: action, Outcome: models.OutcomeNoTarget}

	rule, hasRule := s.policy[action.TargetType]

	found := false
	controllable := false
	for i := range state.Subsystems {
		sub := &state.Subsystems[i]
		if sub.Type != action.TargetType {
			continue
		}
		found = true
		if !sub.Controllable || !hasRule {
			continue
		}
		controllable = true

		reduction := rule.ReductionFor(sub.CurrentLoadPct)
		if reduction <= 0 {
			continue
		}

		sub.CurrentLoadPct -= reduction
		result.Outcome = models.OutcomeApplied
		result.SubsystemsAffected = append(result.SubsystemsAffected, sub.ID)
		result.RealizedSavingsKWh += (reduction / 100) * sub.MaxCapacityKW
	}

	switch {
	case result.Outcome == models.OutcomeApplied:
	case found && !controllable:
		result.Outcome = models.OutcomeNotControllable
	case found:
		result.Outcome = models.OutcomeNoHeadroom
	}

	return result
}

// ReductionFor is the bounded proportional cut: the smaller of the policy
// cap and the fractional reduction, further limited by the type floor.
func (r ReductionRule) ReductionFor(loadPct float64) float64 {
	reduction := loadPct * r.Fraction
	if reduction > r.CapPts {
		reduction = r.CapPts
	}
	if headroom := loadPct - r.FloorPct; reduction > headroom {
		reduction = headroom
	}
	if reduction < 0 {
		return 0
	}
	return reduction
}

// String implements fmt.Stringer for logging.
func (p Policy) String() string {
	return fmt.Sprintf("policy(%d types)", len(p))
}
