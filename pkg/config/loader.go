package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/optimizer")
	}

	v.SetEnvPrefix("OPTIMIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults and env vars carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "energy-optimizer")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "15s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "optimizer")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "60s")

	// Provider defaults
	v.SetDefault("provider.type", "http")
	v.SetDefault("provider.endpoint", "http://localhost:9000")
	v.SetDefault("provider.timeout", "5s")
	v.SetDefault("provider.retry_attempts", 3)
	v.SetDefault("provider.retry_delay", "1s")
	v.SetDefault("provider.circuit_breaker.fail_limit", 5)
	v.SetDefault("provider.circuit_breaker.cooldown", "30s")

	// Simulator defaults
	v.SetDefault("simulator.setpoint_c", 22.0)
	v.SetDefault("simulator.seed", 0)

	// Engine defaults
	v.SetDefault("engine.interval", "15m")
	v.SetDefault("engine.weights.renewable", 0.35)
	v.SetDefault("engine.weights.carbon", 0.30)
	v.SetDefault("engine.weights.price", 0.20)
	v.SetDefault("engine.weights.secondary", 0.15)
	v.SetDefault("engine.references.price_per_mwh", 100.0)
	v.SetDefault("engine.references.secondary_price", 0.10)
	v.SetDefault("engine.references.carbon_ceiling", 1.0)
	v.SetDefault("engine.top_n", 5)
	v.SetDefault("engine.bottom_n", 3)
	v.SetDefault("engine.sustained_slots", 4)
	v.SetDefault("engine.forecast_slots", 24)
	v.SetDefault("engine.slot_length", "1h")

	// Impact defaults
	v.SetDefault("impact.price_per_kwh", 0.35)
	v.SetDefault("impact.carbon_intensity", 0.75)

	// Planner defaults
	v.SetDefault("planner.cooldown_period", "5m")
	v.SetDefault("planner.hvac_high_threshold", 60.0)
	v.SetDefault("planner.lighting_high_threshold", 40.0)
	v.SetDefault("planner.compute_window_min_score", 60.0)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", "change-me-in-production")
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.default_limit", 50)
	v.SetDefault("api.max_limit", 500)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("events.kafka.enabled", false)
	v.SetDefault("events.kafka.topic", "optimizer-events")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", "5m")
}
