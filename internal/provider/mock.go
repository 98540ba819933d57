package provider

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// Per-fuel emission factors in kgCO2/kWh. The non-renewable remainder is
// split 70% coal, 30% gas.
const (
	coalIntensity      = 0.95
	gasIntensity       = 0.45
	renewableIntensity = 0.05
)

// MockProvider synthesizes forecast and weather data following the shape
// of a real regional grid: renewables peak in daylight hours, prices peak
// in the evening, the secondary market tracks business hours. All jitter
// comes from a seeded source so fixtures are reproducible.
type MockProvider struct {
	regions   map[string]bool
	basePrice float64
	baseSpot  float64
	rng       *rand.Rand
	mu        sync.Mutex
	closed    bool
}

type MockProviderConfig struct {
	// Regions whitelists the region codes the mock answers for. Empty
	// means any region.
	Regions []string
	// BasePrice in $/MWh before time-of-day multipliers. Zero means 85.
	BasePrice float64
	// BaseSpot is the secondary-market base price. Zero means 0.08.
	BaseSpot float64
	Seed     int64
}

func NewMockProvider(cfg MockProviderConfig) *MockProvider {
	if cfg.BasePrice == 0 {
		cfg.BasePrice = 85.0
	}
	if cfg.BaseSpot == 0 {
		cfg.BaseSpot = 0.08
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var regions map[string]bool
	if len(cfg.Regions) > 0 {
		regions = make(map[string]bool, len(cfg.Regions))
		for _, r := range cfg.Regions {
			regions[r] = true
		}
	}

	return &MockProvider{
		regions:   regions,
		basePrice: cfg.BasePrice,
		baseSpot:  cfg.BaseSpot,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (p *MockProvider) Forecast(ctx context.Context, region string, start time.Time, slotCount int, slotLen time.Duration) (models.ForecastSeries, error) {
	if err := p.checkRegion(region); err != nil {
		return nil, err
	}
	if slotCount <= 0 || slotLen <= 0 {
		return nil, fmt.Errorf("%w: slot count %d, slot length %s", models.ErrInvalidInput, slotCount, slotLen)
	}

	series := make(models.ForecastSeries, slotCount)
	for i := 0; i < slotCount; i++ {
		slotStart := start.Add(time.Duration(i) * slotLen)
		hour := slotStart.Hour()

		renewable := renewablePattern(hour, i)
		series[i] = models.ForecastSlot{
			StartTime:       slotStart,
			EndTime:         slotStart.Add(slotLen),
			RenewablePct:    renewable,
			CarbonIntensity: carbonFromMix(renewable),
			PricePerMWh:     p.basePrice / 85.0 * pricePattern(hour, i),
			SecondaryPrice:  p.baseSpot * spotMultiplier(hour),
		}
	}
	return series, nil
}

func (p *MockProvider) Weather(ctx context.Context, region string, at time.Time) (models.Environment, error) {
	if err := p.checkRegion(region); err != nil {
		return models.Environment{}, err
	}

	hour := at.Hour()
	temp := 22 + 8*(1-math.Abs(float64(hour)-14)/14)

	solar := 0.0
	if hour >= 6 && hour <= 18 {
		solar = math.Max(0, 900*(1-math.Abs(float64(hour)-12)/12))
	}

	p.mu.Lock()
	jitter := p.rng.Float64()*2 - 1
	p.mu.Unlock()

	return models.Environment{
		OutdoorTempC:    temp + jitter,
		SolarIrradiance: solar,
		WindSpeedKmh:    15 + float64(hour%6)*2,
	}, nil
}

func (p *MockProvider) HealthCheck(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrFetchFailed
	}
	return nil
}

func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *MockProvider) checkRegion(region string) error {
	if p.regions != nil && !p.regions[region] {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, region)
	}
	return nil
}

// renewablePattern peaks during solar hours and falls back to the wind
// baseline at night.
func renewablePattern(hour, i int) float64 {
	if hour >= 8 && hour <= 16 {
		return 70 + float64(i%3)*5
	}
	return 45 + float64(i%2)*10
}

// pricePattern in $/MWh around the 85 base: cheap overnight and at midday,
// expensive in the evening ramp.
func pricePattern(hour, i int) float64 {
	if hour >= 8 && hour <= 16 {
		return 40 + float64(i%4)*10
	}
	return 60 + float64(i%3)*15
}

// spotMultiplier reflects secondary-market demand by time of day.
func spotMultiplier(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 17:
		return 1.15
	case hour >= 18 && hour <= 22:
		return 1.25
	default:
		return 0.85
	}
}

// carbonFromMix derives intensity from the generation mix, assuming the
// non-renewable remainder splits 70% coal, 30% gas.
func carbonFromMix(renewablePct float64) float64 {
	nonRenewable := 100 - renewablePct
	return renewablePct/100*renewableIntensity +
		nonRenewable*0.7/100*coalIntensity +
		nonRenewable*0.3/100*gasIntensity
}
