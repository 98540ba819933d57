package simulator

import "github.com/gridpulse/energy-optimizer/pkg/models"

// benchmarkKWhPerSqm is the hourly consumption of an efficient office
// building, used as the 100-score reference.
const benchmarkKWhPerSqm = 0.48

// EfficiencyMetrics derives per-state efficiency figures: consumption per
// person and per square metre, the consumption share of each subsystem
// type, and a 0-100 score against the benchmark.
func EfficiencyMetrics(state *models.BuildingState, topo *models.Topology) models.EfficiencyMetrics {
	total := state.TotalConsumptionKW()

	share := make(map[string]float64)
	if total > 0 {
		for i := range state.Subsystems {
			sub := &state.Subsystems[i]
			share[string(sub.Type)] += sub.ConsumptionKW() / total * 100
		}
	}

	persons := state.OccupancyCount
	if persons < 1 {
		persons = 1
	}

	m := models.EfficiencyMetrics{
		KWhPerPerson: total / float64(persons),
		ShareByType:  share,
	}

	if topo.FloorAreaSqm > 0 {
		m.KWhPerSqm = total / topo.FloorAreaSqm
		m.EfficiencyScore = efficiencyScore(total, topo.FloorAreaSqm)
	}

	return m
}

func efficiencyScore(totalKW, floorAreaSqm float64) float64 {
	benchmark := floorAreaSqm * benchmarkKWhPerSqm
	if totalKW <= benchmark {
		return 100
	}
	score := benchmark / totalKW * 100
	if score < 0 {
		return 0
	}
	return score
}
