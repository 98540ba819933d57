package simulator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// LoadBounds clamp a subsystem's simulated load percentage.
type LoadBounds struct {
	Floor   float64
	Ceiling float64
}

type Config struct {
	// SetpointC is the indoor temperature target the HVAC penalty is
	// measured against.
	SetpointC float64

	// Bounds override the per-type load clamps.
	Bounds map[models.SubsystemType]LoadBounds

	// Seed controls the occupancy and critical-compute draws. Zero means
	// seed from the clock.
	Seed int64
}

// DefaultBounds returns the per-type load clamps used when none are
// configured.
func DefaultBounds() map[models.SubsystemType]LoadBounds {
	return map[models.SubsystemType]LoadBounds{
		models.SubsystemHVAC:     {Floor: 20, Ceiling: 100},
		models.SubsystemLighting: {Floor: 10, Ceiling: 100},
		models.SubsystemCompute:  {Floor: 30, Ceiling: 95},
		models.SubsystemOther:    {Floor: 15, Ceiling: 60},
	}
}

// Simulator models per-subsystem load for a building at a given hour and
// environment. All randomness flows through the seeded source so runs are
// reproducible.
type Simulator struct {
	config Config
	rng    *rand.Rand
	mu     sync.Mutex
}

func New(cfg Config) *Simulator {
	if cfg.SetpointC == 0 {
		cfg.SetpointC = 22.0
	}
	if cfg.Bounds == nil {
		cfg.Bounds = DefaultBounds()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SimulateState builds a fresh BuildingState from the topology, the typical
// occupancy, the hour of day and the outdoor environment. The topology is
// read-only; the returned state owns its subsystem slice.
func (s *Simulator) SimulateState(topo *models.Topology, occupancy, hour int, env models.Environment) (*models.BuildingState, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: hour %d outside [0,23]", models.ErrInvalidInput, hour)
	}
	if occupancy < 0 {
		return nil, fmt.Errorf("%w: negative occupancy %d", models.ErrInvalidInput, occupancy)
	}

	actualOccupancy := s.occupancyAt(hour, occupancy, topo.MaxOccupancy)

	subsystems := make([]models.Subsystem, len(topo.Subsystems))
	for i, sub := range topo.Subsystems {
		sub.CurrentLoadPct = s.subsystemLoad(&sub, actualOccupancy, topo.MaxOccupancy, hour, env)
		subsystems[i] = sub
	}

	return &models.BuildingState{
		BuildingID:     topo.BuildingID,
		Timestamp:      time.Now(),
		OccupancyCount: actualOccupancy,
		Subsystems:     subsystems,
		Environment:    env,
	}, nil
}

func (s *Simulator) subsystemLoad(sub *models.Subsystem, occupancy, maxOccupancy, hour int, env models.Environment) float64 {
	occRatio := 0.0
	if maxOccupancy > 0 {
		occRatio = float64(occupancy) / float64(maxOccupancy)
	}

	var load float64
	switch sub.Type {
	case models.SubsystemHVAC:
		load = s.hvacLoad(occRatio, hour, env)
	case models.SubsystemLighting:
		load = s.lightingLoad(occRatio, hour)
	case models.SubsystemCompute:
		if sub.Controllable {
			load = 40 + occRatio*40
		} else {
			load = s.criticalComputeLoad(hour)
		}
	default:
		load = 25 + occRatio*20
	}

	return s.clamp(sub.Type, load)
}

// hvacLoad scales with occupancy, pays a penalty proportional to the
// distance from the setpoint, pre-conditions the building in the early
// morning and winds down after hours.
func (s *Simulator) hvacLoad(occRatio float64, hour int, env models.Environment) float64 {
	load := 40 + occRatio*40

	if delta := env.OutdoorTempC - s.config.SetpointC; delta != 0 {
		if delta < 0 {
			delta = -delta
		}
		load += delta * 2
	}

	switch {
	case hour >= 6 && hour <= 8:
		load += 15
	case hour >= 18 && hour <= 22:
		load *= 0.7
	}

	return load
}

// lightingLoad scales with occupancy, discounted during daylight and
// boosted during dark hours.
func (s *Simulator) lightingLoad(occRatio float64, hour int) float64 {
	load := 20 + occRatio*60

	switch {
	case hour >= 10 && hour <= 16:
		load *= 0.7
	case hour <= 6 || hour >= 20:
		load *= 1.2
	}

	return load
}

// criticalComputeLoad is bound to the operating-hours regime and never
// follows occupancy.
func (s *Simulator) criticalComputeLoad(hour int) float64 {
	if hour >= 9 && hour <= 16 {
		return s.uniform(80, 95)
	}
	return s.uniform(60, 80)
}

func (s *Simulator) clamp(st models.SubsystemType, load float64) float64 {
	bounds, ok := s.config.Bounds[st]
	if !ok {
		bounds = LoadBounds{Floor: 0, Ceiling: 100}
	}
	if load < bounds.Floor {
		return bounds.Floor
	}
	if load > bounds.Ceiling {
		return bounds.Ceiling
	}
	return load
}

func (s *Simulator) uniform(low, high float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + s.rng.Float64()*(high-low)
}

func (s *Simulator) intnBetween(low, high int) int {
	if high <= low {
		return low
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + s.rng.Intn(high-low+1)
}
