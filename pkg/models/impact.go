package models

import "time"

// ImpactMetrics are the aggregated effects of realized savings.
type ImpactMetrics struct {
	EnergyKWh float64 `json:"energy_kwh"`
	Cost      float64 `json:"cost"`
	CarbonKg  float64 `json:"carbon_kg"`
}

// OptimizationRun records one full pipeline cycle for a building.
type OptimizationRun struct {
	ID                 string         `json:"id"`
	BuildingID         string         `json:"building_id"`
	Timestamp          time.Time      `json:"timestamp"`
	BaselineKW         float64        `json:"baseline_kw"`
	OptimizedKW        float64        `json:"optimized_kw"`
	RealizedSavingsKWh float64        `json:"realized_savings_kwh"`
	Metrics            ImpactMetrics  `json:"metrics"`
	AnnualProjection   ImpactMetrics  `json:"annual_projection"`
	BestWindow         *ScoredWindow  `json:"best_window,omitempty"`
	ActionResults      []ActionResult `json:"action_results,omitempty"`
}
