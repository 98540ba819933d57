package provider

import (
	"context"
	"errors"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

var (
	ErrFetchFailed     = errors.New("forecast fetch failed")
	ErrTimeout         = errors.New("forecast fetch timeout")
	ErrRegionNotFound  = errors.New("region not found")
	ErrInvalidResponse = errors.New("invalid response from feed")
)

// ForecastProvider supplies market and grid forecasts for a region. The
// returned series is ordered and contiguous; consumers still validate it
// before scoring.
type ForecastProvider interface {
	// Forecast fetches slotCount slots of slotLen each, starting at start.
	Forecast(ctx context.Context, region string, start time.Time, slotCount int, slotLen time.Duration) (models.ForecastSeries, error)

	// HealthCheck verifies the provider can reach its feed.
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// WeatherProvider supplies the outdoor environment for a region.
type WeatherProvider interface {
	Weather(ctx context.Context, region string, at time.Time) (models.Environment, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
