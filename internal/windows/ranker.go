package windows

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// maxScoreWorkers bounds the per-slot scoring fanout.
const maxScoreWorkers = 8

// RankWindows scores every slot of the series and returns the topN best
// and bottomN worst windows. Scoring is a pure per-slot map, so slots are
// scored concurrently; the final ordering is fully deterministic with ties
// broken by the earliest start time. Counts beyond the series length are
// clamped, not rejected.
func (s *Scorer) RankWindows(ctx context.Context, series models.ForecastSeries, topN, bottomN int) ([]models.ScoredWindow, []models.ScoredWindow, error) {
	if err := series.Validate(); err != nil {
		return nil, nil, err
	}

	scored := make([]models.ScoredWindow, len(series))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxScoreWorkers)
	for i := range series {
		i := i
		g.Go(func() error {
			scored[i] = s.ScoreSlot(series[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	best := make([]models.ScoredWindow, len(scored))
	copy(best, scored)
	sort.SliceStable(best, func(i, j int) bool {
		if best[i].Score != best[j].Score {
			return best[i].Score > best[j].Score
		}
		return best[i].Slot.StartTime.Before(best[j].Slot.StartTime)
	})

	worst := make([]models.ScoredWindow, len(scored))
	copy(worst, scored)
	sort.SliceStable(worst, func(i, j int) bool {
		if worst[i].Score != worst[j].Score {
			return worst[i].Score < worst[j].Score
		}
		return worst[i].Slot.StartTime.Before(worst[j].Slot.StartTime)
	})

	return best[:clampCount(topN, len(best))], worst[:clampCount(bottomN, len(worst))], nil
}

func clampCount(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}
