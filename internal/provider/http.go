package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// HTTPProvider fetches forecasts and weather from a feed service over
// HTTP. It serves both provider interfaces from one endpoint pair.
type HTTPProvider struct {
	client   *http.Client
	endpoint string
}

type HTTPProviderConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewHTTPProvider(cfg HTTPProviderConfig) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPProvider{
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
	}
}

// forecastResponse matches the feed service's forecast payload.
type forecastResponse struct {
	Region string         `json:"region"`
	Slots  []slotResponse `json:"slots"`
}

type slotResponse struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	RenewablePct    float64   `json:"renewable_pct"`
	CarbonIntensity float64   `json:"carbon_intensity_kg_per_kwh"`
	PricePerMWh     float64   `json:"price_per_mwh"`
	SecondaryPrice  float64   `json:"secondary_price"`
}

type weatherResponse struct {
	Region          string  `json:"region"`
	OutdoorTempC    float64 `json:"outdoor_temp_c"`
	SolarIrradiance float64 `json:"solar_irradiance_wm2"`
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
}

func (p *HTTPProvider) Forecast(ctx context.Context, region string, start time.Time, slotCount int, slotLen time.Duration) (models.ForecastSeries, error) {
	query := url.Values{
		"region":       {region},
		"start":        {start.Format(time.RFC3339)},
		"slots":        {strconv.Itoa(slotCount)},
		"slot_minutes": {strconv.Itoa(int(slotLen.Minutes()))},
	}

	body, err := p.get(ctx, region, "/forecast", query)
	if err != nil {
		return nil, err
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	series := make(models.ForecastSeries, len(resp.Slots))
	for i, slot := range resp.Slots {
		series[i] = models.ForecastSlot{
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			RenewablePct:    slot.RenewablePct,
			CarbonIntensity: slot.CarbonIntensity,
			PricePerMWh:     slot.PricePerMWh,
			SecondaryPrice:  slot.SecondaryPrice,
		}
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return series, nil
}

func (p *HTTPProvider) Weather(ctx context.Context, region string, at time.Time) (models.Environment, error) {
	query := url.Values{
		"region": {region},
		"at":     {at.Format(time.RFC3339)},
	}

	body, err := p.get(ctx, region, "/weather", query)
	if err != nil {
		return models.Environment{}, err
	}

	var resp weatherResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Environment{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return models.Environment{
		OutdoorTempC:    resp.OutdoorTempC,
		SolarIrradiance: resp.SolarIrradiance,
		WindSpeedKmh:    resp.WindSpeedKmh,
	}, nil
}

func (p *HTTPProvider) get(ctx context.Context, region, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", p.endpoint, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.WithRegion(region).Debugf("Fetching %s", reqURL)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, region)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrFetchFailed, err)
	}
	return body, nil
}

func (p *HTTPProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrFetchFailed, resp.StatusCode)
	}
	return nil
}

func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
