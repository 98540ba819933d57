package provider

import (
	"context"
	"sync"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/internal/resilience"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// ResilientProvider wraps a ForecastProvider with retries, a circuit
// breaker and a last-good fallback. A region whose feed is down keeps
// serving the most recent successful series until the breaker recovers.
type ResilientProvider struct {
	inner         ForecastProvider
	breaker       *resilience.Breaker
	retryAttempts int
	retryDelay    time.Duration

	mu       sync.RWMutex
	lastGood map[string]models.ForecastSeries
}

type ResilientProviderConfig struct {
	Provider      ForecastProvider
	FailLimit     int
	Cooldown      time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientProvider(cfg ResilientProviderConfig) *ResilientProvider {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:          "forecast-feed",
		FailLimit:     cfg.FailLimit,
		Cooldown:      cfg.Cooldown,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientProvider{
		inner:         cfg.Provider,
		breaker:       breaker,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		lastGood:      make(map[string]models.ForecastSeries),
	}
}

func (p *ResilientProvider) Forecast(ctx context.Context, region string, start time.Time, slotCount int, slotLen time.Duration) (models.ForecastSeries, error) {
	var series models.ForecastSeries
	var lastErr error

	err := p.breaker.Execute(func() error {
		for attempt := 1; attempt <= p.retryAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var err error
			series, err = p.inner.Forecast(ctx, region, start, slotCount, slotLen)
			if err == nil {
				return nil
			}

			lastErr = err
			logger.WithRegion(region).Warnf(
				"Forecast attempt %d/%d failed: %v",
				attempt, p.retryAttempts, err,
			)

			if attempt < p.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(p.retryDelay):
				}
			}
		}
		return lastErr
	})

	if err != nil {
		if cached, ok := p.cachedSeries(region); ok {
			logger.WithRegion(region).Warnf("Serving stale forecast after fetch failure: %v", err)
			return cached, nil
		}
		return nil, err
	}

	p.storeSeries(region, series)
	return series, nil
}

func (p *ResilientProvider) cachedSeries(region string) (models.ForecastSeries, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	series, ok := p.lastGood[region]
	return series, ok
}

func (p *ResilientProvider) storeSeries(region string, series models.ForecastSeries) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastGood[region] = series
}

func (p *ResilientProvider) HealthCheck(ctx context.Context) error {
	return p.inner.HealthCheck(ctx)
}

func (p *ResilientProvider) Close() error {
	return p.inner.Close()
}

func (p *ResilientProvider) BreakerState() resilience.State {
	return p.breaker.State()
}

func (p *ResilientProvider) ResetBreaker() {
	p.breaker.Reset()
}
