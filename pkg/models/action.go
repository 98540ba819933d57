package models

import "fmt"

// OptimizationAction is a proposed intervention produced by a rule engine
// or an external agent. Actions are ephemeral: consumed once by the impact
// simulator.
type OptimizationAction struct {
	Name               string        `json:"action_name"`
	TargetType         SubsystemType `json:"target_subsystem_type"`
	ExpectedSavingsKWh float64       `json:"expected_savings_kwh"`
	Reasoning          string        `json:"reasoning,omitempty"`
}

// Validate rejects negative expected savings.
func (a OptimizationAction) Validate() error {
	if a.ExpectedSavingsKWh < 0 {
		return fmt.Errorf("%w: action %q has negative expected savings", ErrInvalidInput, a.Name)
	}
	return nil
}

// ActionOutcome classifies what happened to one action.
type ActionOutcome string

const (
	OutcomeApplied         ActionOutcome = "applied"
	OutcomeNoTarget        ActionOutcome = "no_target"
	OutcomeNotControllable ActionOutcome = "not_controllable"
	OutcomeNoHeadroom      ActionOutcome = "no_headroom"
)

// ActionResult reports the realized effect of a single action. A skipped
// action is a zero-impact result, not an error.
type ActionResult struct {
	Action             OptimizationAction `json:"action"`
	Outcome            ActionOutcome      `json:"outcome"`
	SubsystemsAffected []string           `json:"subsystems_affected,omitempty"`
	RealizedSavingsKWh float64            `json:"realized_savings_kwh"`
}

// Applied reports whether the action changed any subsystem.
func (r ActionResult) Applied() bool {
	return r.Outcome == OutcomeApplied
}
