package models

import (
	"fmt"
	"time"
)

// ForecastSlot is one discrete interval of market and environmental
// observations supplied by a forecast provider.
type ForecastSlot struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	RenewablePct    float64   `json:"renewable_pct"`
	CarbonIntensity float64   `json:"carbon_intensity_kg_per_kwh"`
	PricePerMWh     float64   `json:"price_per_mwh"`
	SecondaryPrice  float64   `json:"secondary_price"`
}

// Duration returns the slot length.
func (s ForecastSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// ForecastSeries is an ordered, time-contiguous sequence of slots spanning
// a bounded horizon.
type ForecastSeries []ForecastSlot

// Validate checks ordering and contiguity. Slots must be monotonically
// increasing in start time with no gaps or overlaps.
func (fs ForecastSeries) Validate() error {
	for i := range fs {
		if !fs[i].EndTime.After(fs[i].StartTime) {
			return fmt.Errorf("%w: slot %d has non-positive duration", ErrInvalidInput, i)
		}
		if fs[i].RenewablePct < 0 || fs[i].RenewablePct > 100 {
			return fmt.Errorf("%w: slot %d renewable_pct %.2f outside [0,100]", ErrInvalidInput, i, fs[i].RenewablePct)
		}
		if fs[i].CarbonIntensity < 0 || fs[i].PricePerMWh < 0 || fs[i].SecondaryPrice < 0 {
			return fmt.Errorf("%w: slot %d has negative market signal", ErrInvalidInput, i)
		}
		if i == 0 {
			continue
		}
		if !fs[i].StartTime.Equal(fs[i-1].EndTime) {
			return fmt.Errorf("%w: slot %d is not contiguous with slot %d", ErrInvalidInput, i, i-1)
		}
	}
	return nil
}

// Horizon returns the covered time span, zero for an empty series.
func (fs ForecastSeries) Horizon() time.Duration {
	if len(fs) == 0 {
		return 0
	}
	return fs[len(fs)-1].EndTime.Sub(fs[0].StartTime)
}
