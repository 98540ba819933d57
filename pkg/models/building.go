package models

import "time"

// Environment holds the outdoor conditions a simulation runs against.
type Environment struct {
	OutdoorTempC    float64 `json:"outdoor_temp_c"`
	SolarIrradiance float64 `json:"solar_irradiance"`
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
}

// BuildingState is a snapshot of a building at a point in time. States are
// constructed fresh per evaluation and never mutated in place; an optimized
// state is a new value derived from a base state plus an action set.
type BuildingState struct {
	BuildingID     string      `json:"building_id"`
	Timestamp      time.Time   `json:"timestamp"`
	OccupancyCount int         `json:"occupancy_count"`
	Subsystems     []Subsystem `json:"subsystems"`
	Environment    Environment `json:"environment"`
}

// TotalConsumptionKW sums subsystem draw. Every component that needs the
// consumption figure goes through here so the formula exists exactly once.
func (bs *BuildingState) TotalConsumptionKW() float64 {
	var total float64
	for i := range bs.Subsystems {
		total += bs.Subsystems[i].ConsumptionKW()
	}
	return total
}

// Clone returns a deep copy, used to derive an optimized state without
// touching the base.
func (bs *BuildingState) Clone() *BuildingState {
	out := *bs
	out.Subsystems = make([]Subsystem, len(bs.Subsystems))
	copy(out.Subsystems, bs.Subsystems)
	return &out
}

// SubsystemLoadPct returns the load of the first subsystem of the given
// type, or 0 if the type is absent.
func (bs *BuildingState) SubsystemLoadPct(st SubsystemType) float64 {
	for i := range bs.Subsystems {
		if bs.Subsystems[i].Type == st {
			return bs.Subsystems[i].CurrentLoadPct
		}
	}
	return 0
}

// EfficiencyMetrics are derived per-state figures used by dashboards.
type EfficiencyMetrics struct {
	KWhPerPerson    float64            `json:"kwh_per_person"`
	KWhPerSqm       float64            `json:"kwh_per_sqm"`
	ShareByType     map[string]float64 `json:"share_by_type"`
	EfficiencyScore float64            `json:"efficiency_score"`
}
