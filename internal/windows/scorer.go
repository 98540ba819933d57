package windows

import (
	"fmt"
	"math"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// weightSumEpsilon tolerates floating-point drift when checking that the
// weights sum to 1.
const weightSumEpsilon = 1e-6

// Weights control the relative importance of each forecast signal in the
// composite score. They must be non-negative and sum to 1.
type Weights struct {
	Renewable float64 `json:"renewable" mapstructure:"renewable"`
	Carbon    float64 `json:"carbon" mapstructure:"carbon"`
	Price     float64 `json:"price" mapstructure:"price"`
	Secondary float64 `json:"secondary" mapstructure:"secondary"`
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{Renewable: 0.35, Carbon: 0.30, Price: 0.20, Secondary: 0.15}
}

func (w Weights) Validate() error {
	for _, v := range []float64{w.Renewable, w.Carbon, w.Price, w.Secondary} {
		if v < 0 {
			return fmt.Errorf("%w: score weights must be non-negative", models.ErrConfiguration)
		}
	}
	sum := w.Renewable + w.Carbon + w.Price + w.Secondary
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return fmt.Errorf("%w: score weights sum to %g, want 1.0", models.ErrConfiguration, sum)
	}
	return nil
}

// References are the fixed points raw signals are normalized against.
type References struct {
	// PricePerMWh scores to zero; free energy scores 100.
	PricePerMWh float64 `json:"price_per_mwh" mapstructure:"price_per_mwh"`
	// SecondaryPrice is the analogous reference for the secondary market.
	SecondaryPrice float64 `json:"secondary_price" mapstructure:"secondary_price"`
	// CarbonCeiling in kgCO2/kWh maps to a carbon score of zero.
	CarbonCeiling float64 `json:"carbon_ceiling" mapstructure:"carbon_ceiling"`
}

// DefaultReferences returns the stock normalization points.
func DefaultReferences() References {
	return References{PricePerMWh: 100, SecondaryPrice: 0.10, CarbonCeiling: 1.0}
}

// Scorer turns forecast slots into 0-100 desirability scores. It is
// stateless and safe for concurrent use.
type Scorer struct {
	weights Weights
	refs    References
}

// NewScorer validates the weights and fills zero references from the
// defaults.
func NewScorer(weights Weights, refs References) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if refs.PricePerMWh <= 0 {
		refs.PricePerMWh = DefaultReferences().PricePerMWh
	}
	if refs.SecondaryPrice <= 0 {
		refs.SecondaryPrice = DefaultReferences().SecondaryPrice
	}
	if refs.CarbonCeiling <= 0 {
		refs.CarbonCeiling = DefaultReferences().CarbonCeiling
	}
	return &Scorer{weights: weights, refs: refs}, nil
}

// ScoreSlot computes the composite score for a single slot. Every
// component is normalized to [0,100] before weighting, so the composite
// is bounded regardless of input.
func (s *Scorer) ScoreSlot(slot models.ForecastSlot) models.ScoredWindow {
	score := s.composite(components{
		renewable: slot.RenewablePct,
		carbon:    slot.CarbonIntensity,
		price:     slot.PricePerMWh,
		secondary: slot.SecondaryPrice,
	})

	return models.ScoredWindow{
		Slot:           slot,
		Score:          score,
		Recommendation: models.RecommendationForScore(score),
	}
}

// components holds the raw signals for one slot or one averaged block.
type components struct {
	renewable float64
	carbon    float64
	price     float64
	secondary float64
}

func (s *Scorer) composite(c components) float64 {
	renewableScore := clamp(c.renewable, 0, 100)
	carbonScore := (1 - clamp(c.carbon/s.refs.CarbonCeiling, 0, 1)) * 100
	priceScore := clamp((s.refs.PricePerMWh-c.price)/s.refs.PricePerMWh*100, 0, 100)
	secondaryScore := clamp((s.refs.SecondaryPrice-c.secondary)/s.refs.SecondaryPrice*100, 0, 100)

	score := s.weights.Renewable*renewableScore +
		s.weights.Carbon*carbonScore +
		s.weights.Price*priceScore +
		s.weights.Secondary*secondaryScore

	return clamp(score, 0, 100)
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
