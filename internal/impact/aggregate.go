package impact

import (
	"fmt"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

const (
	// DefaultPricePerKWh is the flat retail tariff used when no live
	// price signal is configured.
	DefaultPricePerKWh = 0.35
	// DefaultCarbonIntensity is the grid emission factor in kgCO2/kWh
	// used when no live carbon signal is configured.
	DefaultCarbonIntensity = 0.75
)

// Aggregator converts raw energy savings into cost and carbon figures.
type Aggregator struct {
	pricePerKWh     float64
	carbonIntensity float64
}

// NewAggregator builds an aggregator with the given conversion factors.
// Zero values fall back to the defaults.
func NewAggregator(pricePerKWh, carbonIntensity float64) *Aggregator {
	if pricePerKWh == 0 {
		pricePerKWh = DefaultPricePerKWh
	}
	if carbonIntensity == 0 {
		carbonIntensity = DefaultCarbonIntensity
	}
	return &Aggregator{pricePerKWh: pricePerKWh, carbonIntensity: carbonIntensity}
}

// Aggregate converts energy savings in kWh into impact metrics.
func (a *Aggregator) Aggregate(energyKWh float64) models.ImpactMetrics {
	return models.ImpactMetrics{
		EnergyKWh: energyKWh,
		Cost:      energyKWh * a.pricePerKWh,
		CarbonKg:  energyKWh * a.carbonIntensity,
	}
}

// Scale multiplies all metric components by the same factor, typically to
// project a single run out to a day, a year, or a fleet.
func Scale(m models.ImpactMetrics, multiplier float64) (models.ImpactMetrics, error) {
	if multiplier < 0 {
		return models.ImpactMetrics{}, fmt.Errorf("%w: projection multiplier must be non-negative, got %g", models.ErrInvalidInput, multiplier)
	}
	return models.ImpactMetrics{
		EnergyKWh: m.EnergyKWh * multiplier,
		Cost:      m.Cost * multiplier,
		CarbonKg:  m.CarbonKg * multiplier,
	}, nil
}

// Sum adds metric sets together, for fleet-level rollups.
func Sum(metrics ...models.ImpactMetrics) models.ImpactMetrics {
	var total models.ImpactMetrics
	for _, m := range metrics {
		total.EnergyKWh += m.EnergyKWh
		total.Cost += m.Cost
		total.CarbonKg += m.CarbonKg
	}
	return total
}
