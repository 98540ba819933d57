package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "energy-optimizer", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Mode)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 15*time.Minute, cfg.Engine.Interval)
	assert.InDelta(t, 0.35, cfg.Engine.Weights.Renewable, 1e-9)
	assert.InDelta(t, 0.30, cfg.Engine.Weights.Carbon, 1e-9)
	assert.InDelta(t, 0.20, cfg.Engine.Weights.Price, 1e-9)
	assert.InDelta(t, 0.15, cfg.Engine.Weights.Secondary, 1e-9)
	assert.InDelta(t, 100.0, cfg.Engine.References.PricePerMWh, 1e-9)
	assert.InDelta(t, 0.35, cfg.Impact.PricePerKWh, 1e-9)
	assert.InDelta(t, 0.75, cfg.Impact.CarbonIntensity, 1e-9)
	assert.Equal(t, "memory", cfg.Cache.Type)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OPTIMIZER_API_PORT", "9999")
	t.Setenv("OPTIMIZER_APP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.API.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.App.Mode = "staging"
	cfg.Database.Port = 0
	cfg.Engine.Weights.Renewable = 0.50

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.mode")
	assert.Contains(t, err.Error(), "database.port")
	assert.Contains(t, err.Error(), "engine.weights")
}

func TestValidateWeightEpsilon(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// Drift inside the epsilon is accepted.
	cfg.Engine.Weights.Renewable = 0.35 + 5e-7
	assert.NoError(t, cfg.Validate())

	// Outside it is not.
	cfg.Engine.Weights.Renewable = 0.36
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionSecret(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.App.Mode = "production"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")

	cfg.API.JWTSecret = "rotated-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidateSustainedSlotsBound(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Engine.SustainedSlots = cfg.Engine.ForecastSlots + 1
	assert.Error(t, cfg.Validate())
}

func TestValidateKafkaBrokersRequired(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Events.Kafka.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Events.Kafka.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())
}
