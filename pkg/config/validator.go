package config

import (
	"errors"
	"fmt"
	"math"
)

const weightSumEpsilon = 1e-6

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, errors.New("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, errors.New("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, errors.New("database.port must be between 1 and 65535"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("database.max_connections must be positive"))
	}

	// Provider validation
	validProviders := map[string]bool{"http": true, "mock": true}
	if !validProviders[c.Provider.Type] {
		errs = append(errs, errors.New("provider.type must be one of: http, mock"))
	}
	if c.Provider.Type == "http" && c.Provider.Endpoint == "" {
		errs = append(errs, errors.New("provider.endpoint is required for the http provider"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, errors.New("provider.timeout must be positive"))
	}

	// Engine validation
	if c.Engine.Interval <= 0 {
		errs = append(errs, errors.New("engine.interval must be positive"))
	}
	if c.Provider.Timeout >= c.Engine.Interval {
		errs = append(errs, errors.New("provider.timeout must be less than engine.interval"))
	}

	w := c.Engine.Weights
	for name, value := range map[string]float64{
		"engine.weights.renewable": w.Renewable,
		"engine.weights.carbon":    w.Carbon,
		"engine.weights.price":     w.Price,
		"engine.weights.secondary": w.Secondary,
	} {
		if value < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative", name))
		}
	}
	if sum := w.Renewable + w.Carbon + w.Price + w.Secondary; math.Abs(sum-1.0) > weightSumEpsilon {
		errs = append(errs, fmt.Errorf("engine.weights must sum to 1.0, got %g", sum))
	}

	if c.Engine.References.PricePerMWh <= 0 {
		errs = append(errs, errors.New("engine.references.price_per_mwh must be positive"))
	}
	if c.Engine.References.SecondaryPrice <= 0 {
		errs = append(errs, errors.New("engine.references.secondary_price must be positive"))
	}
	if c.Engine.References.CarbonCeiling <= 0 {
		errs = append(errs, errors.New("engine.references.carbon_ceiling must be positive"))
	}
	if c.Engine.ForecastSlots <= 0 {
		errs = append(errs, errors.New("engine.forecast_slots must be positive"))
	}
	if c.Engine.SustainedSlots <= 0 || c.Engine.SustainedSlots > c.Engine.ForecastSlots {
		errs = append(errs, errors.New("engine.sustained_slots must be between 1 and engine.forecast_slots"))
	}
	if c.Engine.SlotLength <= 0 {
		errs = append(errs, errors.New("engine.slot_length must be positive"))
	}

	// Impact validation
	if c.Impact.PricePerKWh < 0 {
		errs = append(errs, errors.New("impact.price_per_kwh must be non-negative"))
	}
	if c.Impact.CarbonIntensity < 0 {
		errs = append(errs, errors.New("impact.carbon_intensity must be non-negative"))
	}

	// Planner validation
	if c.Planner.CooldownPeriod <= 0 {
		errs = append(errs, errors.New("planner.cooldown_period must be positive"))
	}
	if c.Planner.ComputeWindowMinScore < 0 || c.Planner.ComputeWindowMinScore > 100 {
		errs = append(errs, errors.New("planner.compute_window_min_score must be between 0 and 100"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.App.Mode == "production" && c.API.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
	}

	// Events validation
	if c.Events.Kafka.Enabled && len(c.Events.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("events.kafka.brokers is required when kafka is enabled"))
	}

	// Cache validation
	validCaches := map[string]bool{"memory": true, "redis": true}
	if !validCaches[c.Cache.Type] {
		errs = append(errs, errors.New("cache.type must be one of: memory, redis"))
	}
	if c.Cache.Type == "redis" && c.Cache.Addr == "" {
		errs = append(errs, errors.New("cache.addr is required for the redis cache"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
