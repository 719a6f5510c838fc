package prediction

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/clever-tips/internal/models"
)

// Odds conversion constants. Each outcome is priced independently and then
// clamped, so the implied book only approximates Overround.
const (
	Overround = 1.05
	MinOdds   = 1.5
	MaxOdds   = 10.0

	minScoreSum = 1e-9
)

// ToOdds normalizes scores into probabilities and prices each outcome
func ToOdds(scores models.ConfidenceScores) (models.Odds, models.Probabilities) {
	probs := Normalize(scores)

	var odds models.Odds
	for _, o := range models.Outcomes {
		odds.Set(o, PriceOutcome(probs.Get(o)))
	}
	return odds, probs
}

// Normalize divides each score by the total. A total below the floor yields a
// uniform distribution.
func Normalize(scores models.ConfidenceScores) models.Probabilities {
	total := scores.Sum()
	if total < minScoreSum {
		third := 1.0 / 3.0
		return models.Probabilities{HomeWin: third, Draw: third, AwayWin: 1 - 2*third}
	}

	return models.Probabilities{
		HomeWin: scores.HomeWin / total,
		Draw:    scores.Draw / total,
		AwayWin: scores.AwayWin / total,
	}
}

// PriceOutcome converts one probability into clamped decimal odds with two decimals
func PriceOutcome(probability float64) float64 {
	if probability <= 0 {
		return MaxOdds
	}
	return round(clamp(Overround/probability, MinOdds, MaxOdds), 2)
}

// BookMargin returns the sum of implied probabilities of a set of odds
func BookMargin(odds models.Odds) float64 {
	margin := 0.0
	for _, o := range models.Outcomes {
		if v := odds.Get(o); v > 0 {
			margin += 1 / v
		}
	}
	return margin
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
