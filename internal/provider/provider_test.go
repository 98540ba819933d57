package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/internal/resilience"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func TestMockForecastContiguousAndValid(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Seed: 42})
	start := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	series, err := p.Forecast(context.Background(), "NSW1", start, 24, time.Hour)
	require.NoError(t, err)
	require.Len(t, series, 24)
	require.NoError(t, series.Validate())

	assert.Equal(t, 24*time.Hour, series.Horizon())
	for _, slot := range series {
		assert.GreaterOrEqual(t, slot.RenewablePct, 0.0)
		assert.LessOrEqual(t, slot.RenewablePct, 100.0)
		assert.Greater(t, slot.PricePerMWh, 0.0)
		assert.Greater(t, slot.CarbonIntensity, 0.0)
	}
}

func TestMockForecastDaytimeRenewablesHigher(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Seed: 1})
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	night := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	daySeries, err := p.Forecast(context.Background(), "NSW1", day, 1, time.Hour)
	require.NoError(t, err)
	nightSeries, err := p.Forecast(context.Background(), "NSW1", night, 1, time.Hour)
	require.NoError(t, err)

	assert.Greater(t, daySeries[0].RenewablePct, nightSeries[0].RenewablePct)
	// More renewables means a cleaner mix.
	assert.Less(t, daySeries[0].CarbonIntensity, nightSeries[0].CarbonIntensity)
}

func TestMockForecastRegionWhitelist(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Regions: []string{"NSW1"}, Seed: 1})
	start := time.Now()

	_, err := p.Forecast(context.Background(), "NSW1", start, 4, time.Hour)
	assert.NoError(t, err)

	_, err = p.Forecast(context.Background(), "QLD1", start, 4, time.Hour)
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestMockForecastInvalidArgs(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Seed: 1})

	_, err := p.Forecast(context.Background(), "NSW1", time.Now(), 0, time.Hour)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = p.Forecast(context.Background(), "NSW1", time.Now(), 4, 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestMockWeatherDailyCycle(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Seed: 9})

	noon, err := p.Weather(context.Background(), "NSW1", time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	night, err := p.Weather(context.Background(), "NSW1", time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Greater(t, noon.OutdoorTempC, night.OutdoorTempC)
	assert.Greater(t, noon.SolarIrradiance, 0.0)
	assert.Zero(t, night.SolarIrradiance)
}

func TestMockHealthAfterClose(t *testing.T) {
	p := NewMockProvider(MockProviderConfig{Seed: 1})
	require.NoError(t, p.HealthCheck(context.Background()))
	require.NoError(t, p.Close())
	assert.Error(t, p.HealthCheck(context.Background()))
}

func TestHTTPProviderForecast(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forecast":
			assert.Equal(t, "NSW1", r.URL.Query().Get("region"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"region":"NSW1","slots":[
				{"start_time":"2026-03-10T08:00:00Z","end_time":"2026-03-10T09:00:00Z","renewable_pct":70,"carbon_intensity_kg_per_kwh":0.3,"price_per_mwh":50,"secondary_price":0.05},
				{"start_time":"2026-03-10T09:00:00Z","end_time":"2026-03-10T10:00:00Z","renewable_pct":75,"carbon_intensity_kg_per_kwh":0.25,"price_per_mwh":45,"secondary_price":0.04}
			]}`))
		case "/health":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := NewHTTPProvider(HTTPProviderConfig{Endpoint: server.URL})
	defer p.Close()

	series, err := p.Forecast(context.Background(), "NSW1", start, 2, time.Hour)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, 70.0, series[0].RenewablePct, 1e-9)
	assert.NoError(t, p.HealthCheck(context.Background()))
}

func TestHTTPProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unknown region", status: http.StatusNotFound, wantErr: ErrRegionNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrFetchFailed},
		{name: "malformed payload", status: http.StatusOK, body: `{"slots":`, wantErr: ErrInvalidResponse},
		{name: "non-contiguous payload", status: http.StatusOK, body: `{"region":"NSW1","slots":[
			{"start_time":"2026-03-10T08:00:00Z","end_time":"2026-03-10T09:00:00Z","renewable_pct":70,"price_per_mwh":50},
			{"start_time":"2026-03-10T11:00:00Z","end_time":"2026-03-10T12:00:00Z","renewable_pct":75,"price_per_mwh":45}
		]}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewHTTPProvider(HTTPProviderConfig{Endpoint: server.URL})
			_, err := p.Forecast(context.Background(), "NSW1", time.Now(), 2, time.Hour)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
	series   models.ForecastSeries
}

func (f *flakyProvider) Forecast(ctx context.Context, region string, start time.Time, slotCount int, slotLen time.Duration) (models.ForecastSeries, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, ErrFetchFailed
	}
	return f.series, nil
}

func (f *flakyProvider) HealthCheck(ctx context.Context) error { return nil }
func (f *flakyProvider) Close() error                          { return nil }

func TestResilientProviderRetries(t *testing.T) {
	series := models.ForecastSeries{{
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), RenewablePct: 60, PricePerMWh: 50,
	}}
	inner := &flakyProvider{failures: 2, series: series}

	p := NewResilientProvider(ResilientProviderConfig{
		Provider:      inner,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	got, err := p.Forecast(context.Background(), "NSW1", time.Now(), 1, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, series, got)
	assert.Equal(t, 3, inner.calls)
}

func TestResilientProviderServesStaleOnFailure(t *testing.T) {
	series := models.ForecastSeries{{
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), RenewablePct: 60, PricePerMWh: 50,
	}}
	inner := &flakyProvider{failures: 0, series: series}

	p := NewResilientProvider(ResilientProviderConfig{
		Provider:      inner,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		FailLimit:     100,
	})

	// Prime the last-good cache.
	_, err := p.Forecast(context.Background(), "NSW1", time.Now(), 1, time.Hour)
	require.NoError(t, err)

	// Feed goes down: the stale series is served instead of the error.
	inner.failures = 1000
	got, err := p.Forecast(context.Background(), "NSW1", time.Now(), 1, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, series, got)

	// A region never seen before has nothing to fall back to.
	_, err = p.Forecast(context.Background(), "QLD1", time.Now(), 1, time.Hour)
	assert.Error(t, err)
}

func TestResilientProviderBreakerOpens(t *testing.T) {
	inner := &flakyProvider{failures: 1000}

	p := NewResilientProvider(ResilientProviderConfig{
		Provider:      inner,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		FailLimit:     2,
		Cooldown:      time.Hour,
	})

	_, err := p.Forecast(context.Background(), "QLD1", time.Now(), 1, time.Hour)
	require.Error(t, err)
	_, err = p.Forecast(context.Background(), "QLD1", time.Now(), 1, time.Hour)
	require.Error(t, err)

	callsBefore := inner.calls
	_, err = p.Forecast(context.Background(), "QLD1", time.Now(), 1, time.Hour)
	require.ErrorIs(t, err, resilience.ErrBreakerOpen)
	assert.Equal(t, callsBefore, inner.calls, "open breaker must not call the feed")
}

func TestCarbonFromMix(t *testing.T) {
	// Fully renewable grid runs at the renewable floor.
	assert.InDelta(t, 0.05, carbonFromMix(100), 1e-9)
	// Fully fossil: 0.7*0.95 + 0.3*0.45.
	assert.InDelta(t, 0.8, carbonFromMix(0), 1e-9)
	// Mix is linear in between.
	assert.InDelta(t, 0.425, carbonFromMix(50), 1e-9)
}
