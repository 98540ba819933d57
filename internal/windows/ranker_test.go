package windows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func rankerTestSeries(t *testing.T) models.ForecastSeries {
	t.Helper()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	series := hourlySeries(start,
		models.ForecastSlot{RenewablePct: 30, CarbonIntensity: 0.6, PricePerMWh: 80, SecondaryPrice: 0.09},
		models.ForecastSlot{RenewablePct: 90, CarbonIntensity: 0.1, PricePerMWh: 20, SecondaryPrice: 0.02},
		models.ForecastSlot{RenewablePct: 55, CarbonIntensity: 0.4, PricePerMWh: 60, SecondaryPrice: 0.06},
		models.ForecastSlot{RenewablePct: 75, CarbonIntensity: 0.2, PricePerMWh: 45, SecondaryPrice: 0.03},
	)
	require.NoError(t, series.Validate())
	return series
}

func TestRankWindowsOrdering(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)
	series := rankerTestSeries(t)

	best, worst, err := scorer.RankWindows(context.Background(), series, 4, 4)
	require.NoError(t, err)
	require.Len(t, best, 4)
	require.Len(t, worst, 4)

	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, best[i-1].Score, best[i].Score)
	}
	for i := 1; i < len(worst); i++ {
		assert.LessOrEqual(t, worst[i-1].Score, worst[i].Score)
	}

	// The 90% renewable slot wins, the 30% slot loses.
	assert.InDelta(t, 90.0, best[0].Slot.RenewablePct, 1e-9)
	assert.InDelta(t, 30.0, worst[0].Slot.RenewablePct, 1e-9)
}

func TestRankWindowsClampsCounts(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)
	series := rankerTestSeries(t)

	best, worst, err := scorer.RankWindows(context.Background(), series, 100, 2)
	require.NoError(t, err)
	assert.Len(t, best, len(series))
	assert.Len(t, worst, 2)

	best, worst, err = scorer.RankWindows(context.Background(), series, -1, 0)
	require.NoError(t, err)
	assert.Empty(t, best)
	assert.Empty(t, worst)
}

func TestRankWindowsNonContiguousSeries(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)

	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	series := models.ForecastSeries{
		{StartTime: start, EndTime: start.Add(time.Hour), RenewablePct: 40, CarbonIntensity: 0.5, PricePerMWh: 70, SecondaryPrice: 0.05},
		// Two-hour gap after the first slot.
		{StartTime: start.Add(3 * time.Hour), EndTime: start.Add(4 * time.Hour), RenewablePct: 60, CarbonIntensity: 0.3, PricePerMWh: 50, SecondaryPrice: 0.04},
		{StartTime: start.Add(4 * time.Hour), EndTime: start.Add(5 * time.Hour), RenewablePct: 80, CarbonIntensity: 0.2, PricePerMWh: 30, SecondaryPrice: 0.03},
	}

	_, _, err = scorer.RankWindows(context.Background(), series, 3, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRankWindowsDeterministic(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)

	// Identical signals everywhere: ties must break by earliest start.
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	flat := make([]models.ForecastSlot, 6)
	for i := range flat {
		flat[i] = models.ForecastSlot{RenewablePct: 50, CarbonIntensity: 0.5, PricePerMWh: 50, SecondaryPrice: 0.05}
	}
	series := hourlySeries(start, flat...)

	for run := 0; run < 5; run++ {
		best, worst, err := scorer.RankWindows(context.Background(), series, 6, 6)
		require.NoError(t, err)
		for i := range best {
			assert.True(t, best[i].Slot.StartTime.Equal(series[i].StartTime), "run %d best[%d]", run, i)
			assert.True(t, worst[i].Slot.StartTime.Equal(series[i].StartTime), "run %d worst[%d]", run, i)
		}
	}
}

func TestRankWindowsEmptySeries(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)

	best, worst, err := scorer.RankWindows(context.Background(), models.ForecastSeries{}, 5, 5)
	require.NoError(t, err)
	assert.Empty(t, best)
	assert.Empty(t, worst)
}

func TestBestSustainedWindow(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	// Hours 2-3 are clearly the best contiguous pair.
	series := hourlySeries(start,
		models.ForecastSlot{RenewablePct: 20, CarbonIntensity: 0.8, PricePerMWh: 90, SecondaryPrice: 0.09},
		models.ForecastSlot{RenewablePct: 50, CarbonIntensity: 0.5, PricePerMWh: 60, SecondaryPrice: 0.06},
		models.ForecastSlot{RenewablePct: 85, CarbonIntensity: 0.15, PricePerMWh: 25, SecondaryPrice: 0.02},
		models.ForecastSlot{RenewablePct: 95, CarbonIntensity: 0.10, PricePerMWh: 15, SecondaryPrice: 0.01},
		models.ForecastSlot{RenewablePct: 40, CarbonIntensity: 0.6, PricePerMWh: 70, SecondaryPrice: 0.07},
	)
	require.NoError(t, series.Validate())

	win, err := scorer.BestSustainedWindow(series, 2)
	require.NoError(t, err)

	assert.True(t, win.StartTime.Equal(start.Add(2*time.Hour)))
	assert.True(t, win.EndTime.Equal(start.Add(4*time.Hour)))
	assert.Equal(t, 2, win.Slots)
	assert.Equal(t, models.RecommendationExcellent, win.Recommendation)

	// The averaged block must score the same as a synthetic slot carrying
	// the averaged signals.
	avg := scorer.ScoreSlot(models.ForecastSlot{RenewablePct: 90, CarbonIntensity: 0.125, PricePerMWh: 20, SecondaryPrice: 0.015})
	assert.InDelta(t, avg.Score, win.Score, 1e-9)
}

func TestBestSustainedWindowInvalidBlockLength(t *testing.T) {
	scorer, err := NewScorer(DefaultWeights(), DefaultReferences())
	require.NoError(t, err)
	series := rankerTestSeries(t)

	tests := []struct {
		name     string
		blockLen int
	}{
		{name: "zero", blockLen: 0},
		{name: "negative", blockLen: -2},
		{name: "longer than series", blockLen: len(series) + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scorer.BestSustainedWindow(series, tt.blockLen)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}
