package models

type SubsystemType string

const (
	SubsystemHVAC     SubsystemType = "hvac"
	SubsystemLighting SubsystemType = "lighting"
	SubsystemCompute  SubsystemType = "compute"
	SubsystemOther    SubsystemType = "other"
)

type SubsystemStatus string

const (
	SubsystemActive  SubsystemStatus = "active"
	SubsystemStandby SubsystemStatus = "standby"
	SubsystemOffline SubsystemStatus = "offline"
)

// Subsystem is a single controllable or fixed building load: an HVAC
// plant, a lighting zone, a compute rack, elevators and the like.
type Subsystem struct {
	ID               string          `json:"id"`
	Type             SubsystemType   `json:"type"`
	CurrentLoadPct   float64         `json:"current_load_pct"`
	MaxCapacityKW    float64         `json:"max_capacity_kw"`
	EfficiencyRating float64         `json:"efficiency_rating"`
	Controllable     bool            `json:"controllable"`
	Status           SubsystemStatus `json:"status"`
}

// ConsumptionKW is the subsystem's current draw.
func (s *Subsystem) ConsumptionKW() float64 {
	return (s.CurrentLoadPct / 100) * s.MaxCapacityKW
}

// Topology is the static description of a building's subsystems and
// occupancy envelope. It is owned by the caller and read-only to the
// engine.
type Topology struct {
	BuildingID       string      `json:"building_id"`
	FloorAreaSqm     float64     `json:"floor_area_sqm"`
	MaxOccupancy     int         `json:"max_occupancy"`
	TypicalOccupancy int         `json:"typical_occupancy"`
	Subsystems       []Subsystem `json:"subsystems"`
}

// SubsystemsOfType returns the indexes of subsystems matching the type.
func (t *Topology) SubsystemsOfType(st SubsystemType) []int {
	var idx []int
	for i := range t.Subsystems {
		if t.Subsystems[i].Type == st {
			idx = append(idx, i)
		}
	}
	return idx
}
