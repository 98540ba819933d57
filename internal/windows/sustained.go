package windows

import (
	"fmt"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// BestSustainedWindow finds the contiguous block of blockLen slots with
// the highest composite score, where each raw signal is averaged over the
// block before normalization. Used to place long-running work such as
// batch compute or pre-cooling. Ties go to the earliest block.
func (s *Scorer) BestSustainedWindow(series models.ForecastSeries, blockLen int) (*models.SustainedWindow, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if blockLen < 1 {
		return nil, fmt.Errorf("%w: sustained block length %d, want at least 1", models.ErrInvalidInput, blockLen)
	}
	if blockLen > len(series) {
		return nil, fmt.Errorf("%w: sustained block length %d exceeds series length %d", models.ErrInvalidInput, blockLen, len(series))
	}

	bestStart := 0
	bestScore := -1.0
	for start := 0; start+blockLen <= len(series); start++ {
		score := s.composite(averageComponents(series[start : start+blockLen]))
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	block := series[bestStart : bestStart+blockLen]

	return &models.SustainedWindow{
		StartTime:      block[0].StartTime,
		EndTime:        block[blockLen-1].EndTime,
		Slots:          blockLen,
		Score:          bestScore,
		Recommendation: models.RecommendationForScore(bestScore),
	}, nil
}

func averageComponents(block []models.ForecastSlot) components {
	var c components
	for _, slot := range block {
		c.renewable += slot.RenewablePct
		c.carbon += slot.CarbonIntensity
		c.price += slot.PricePerMWh
		c.secondary += slot.SecondaryPrice
	}
	n := float64(len(block))
	c.renewable /= n
	c.carbon /= n
	c.price /= n
	c.secondary /= n
	return c
}
