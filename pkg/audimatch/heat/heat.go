// Package heat estimates how "hot" a text is for the known audiences.
//
// The heat of a text is the best audience overlap ratio scaled to 0–100
// and multiplied by a market weight:
//
//	heat = clamp(max_s(overlap_s / max(|keywords_s|, 1)) · 100 · weight, 0, 100)
//
// The market weight is a placeholder for future market signals and is
// 1.0 unless configured otherwise.
package heat

import (
	"github.com/cognicore/audimatch/pkg/audimatch/audience"
)

const (
	// DefaultMarketWeight leaves the overlap ratio unchanged.
	DefaultMarketWeight = 1.0

	// MaxScore is the upper bound of a heat score.
	MaxScore = 100.0
)

// Scorer computes heat scores.
type Scorer struct {
	marketWeight float64
}

// NewScorer creates a scorer with the given market weight.
func NewScorer(marketWeight float64) *Scorer {
	return &Scorer{marketWeight: marketWeight}
}

// Default returns a scorer using DefaultMarketWeight.
func Default() *Scorer {
	return NewScorer(DefaultMarketWeight)
}

// MarketWeight returns the configured weight.
func (s *Scorer) MarketWeight() float64 {
	return s.marketWeight
}

// Score returns the heat of keywords against the catalog, in [0,100].
// An empty catalog scores 0.
func (s *Scorer) Score(keywords []string, catalog *audience.Catalog) float64 {
	set := audience.NewKeywordSet(keywords)

	best := 0.0
	for i := 0; i < catalog.Len(); i++ {
		score := catalog.OverlapRatio(i, set) * MaxScore * s.marketWeight
		if score > best {
			best = score
		}
	}

	if best > MaxScore {
		return MaxScore
	}
	return best
}
