package config

import (
	"fmt"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/database"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Simulator  SimulatorConfig  `mapstructure:"simulator"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Impact     ImpactConfig     `mapstructure:"impact"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events     EventsConfig     `mapstructure:"events"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

// ToDBConfig maps the loaded settings onto the database package's
// connection config.
func (d DatabaseConfig) ToDBConfig() database.Config {
	return database.Config{
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		User:            d.User,
		Password:        d.Password,
		MaxConnections:  d.MaxConnections,
		SSLMode:         d.SSLMode,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		PingTimeout:     d.PingTimeout,
	}
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

type ProviderConfig struct {
	Type           string               `mapstructure:"type"`
	Endpoint       string               `mapstructure:"endpoint"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration        `mapstructure:"retry_delay"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	FailLimit int           `mapstructure:"fail_limit"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
}

type SimulatorConfig struct {
	SetpointC float64 `mapstructure:"setpoint_c"`
	Seed      int64   `mapstructure:"seed"`
}

type EngineConfig struct {
	Interval       time.Duration    `mapstructure:"interval"`
	Weights        WeightsConfig    `mapstructure:"weights"`
	References     ReferencesConfig `mapstructure:"references"`
	TopN           int              `mapstructure:"top_n"`
	BottomN        int              `mapstructure:"bottom_n"`
	SustainedSlots int              `mapstructure:"sustained_slots"`
	ForecastSlots  int              `mapstructure:"forecast_slots"`
	SlotLength     time.Duration    `mapstructure:"slot_length"`
}

type WeightsConfig struct {
	Renewable float64 `mapstructure:"renewable"`
	Carbon    float64 `mapstructure:"carbon"`
	Price     float64 `mapstructure:"price"`
	Secondary float64 `mapstructure:"secondary"`
}

type ReferencesConfig struct {
	PricePerMWh    float64 `mapstructure:"price_per_mwh"`
	SecondaryPrice float64 `mapstructure:"secondary_price"`
	CarbonCeiling  float64 `mapstructure:"carbon_ceiling"`
}

type ImpactConfig struct {
	PricePerKWh     float64 `mapstructure:"price_per_kwh"`
	CarbonIntensity float64 `mapstructure:"carbon_intensity"`
}

type PlannerConfig struct {
	CooldownPeriod        time.Duration `mapstructure:"cooldown_period"`
	HVACHighThreshold     float64       `mapstructure:"hvac_high_threshold"`
	LightingHighThreshold float64       `mapstructure:"lighting_high_threshold"`
	ComputeWindowMinScore float64       `mapstructure:"compute_window_min_score"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTDuration  time.Duration `mapstructure:"jwt_duration"`
	DefaultLimit int           `mapstructure:"default_limit"`
	MaxLimit     int           `mapstructure:"max_limit"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type EventsConfig struct {
	BufferSize int         `mapstructure:"buffer_size"`
	Kafka      KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}
