package prediction

import (
	"github.com/yourusername/clever-tips/internal/models"
)

// SelectOutcome picks the highest scoring outcome and builds a partial prediction.
// League, fixture and strategy fields are left for the caller.
func SelectOutcome(scores models.ConfidenceScores, odds models.Odds, probs models.Probabilities, homeTeam, awayTeam string) models.MatchPrediction {
	pick := Argmax(scores)
	return models.MatchPrediction{
		Home:          homeTeam,
		Away:          awayTeam,
		Pick:          pick,
		Confidence:    CompositeConfidence(scores, probs),
		Odds:          odds.Get(pick),
		AllOdds:       odds,
		Probabilities: probs,
		Scores:        scores,
	}
}

// Argmax returns the outcome with the highest value. Ties go to the earlier
// outcome in models.Outcomes.
func Argmax(values models.OutcomeValues) models.Outcome {
	best := models.Outcomes[0]
	bestValue := values.Get(best)
	for _, o := range models.Outcomes[1:] {
		if v := values.Get(o); v > bestValue {
			best, bestValue = o, v
		}
	}
	return best
}

// CompositeConfidence is the probability weighted average of the raw scores,
// rounded to one decimal.
func CompositeConfidence(scores models.ConfidenceScores, probs models.Probabilities) float64 {
	total := 0.0
	for _, o := range models.Outcomes {
		total += scores.Get(o) * probs.Get(o)
	}
	return round(total, 1)
}
