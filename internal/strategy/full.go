package strategy

import (
	"context"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
)

// FullStrategyName is the registry name of FullStrategy
const FullStrategyName = "full"

// FullStrategy scores all three outcomes from form, expected goals, home advantage,
// reputation and competition, then prices them as decimal odds.
type FullStrategy struct {
	BaseStrategy
	Scorer *prediction.Scorer
}

// NewFullStrategy creates the full strategy. A nil club set selects the default.
func NewFullStrategy(bigClubs prediction.ClubSet) *FullStrategy {
	return &FullStrategy{
		BaseStrategy: newBaseStrategy(),
		Scorer:       prediction.NewScorer(bigClubs),
	}
}

// Name returns strategy name
func (s *FullStrategy) Name() string {
	return FullStrategyName
}

// Predict runs score, odds and outcome selection for one fixture
func (s *FullStrategy) Predict(ctx context.Context, input Input) (*models.MatchPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ValidateInput(input); err != nil {
		return nil, err
	}

	f := input.Fixture
	scores := s.Scorer.Score(input.HomeForm, input.AwayForm, f.Home, f.Away, f.League)
	odds, probs := prediction.ToOdds(scores)
	pred := prediction.SelectOutcome(scores, odds, probs, f.Home, f.Away)

	s.Stamp(&pred, input, s.Name())
	return &pred, nil
}

// GetParameters returns the model constants for logging and the API
func (s *FullStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"base_score": prediction.BaseScore,
		"overround":  prediction.Overround,
		"min_odds":   prediction.MinOdds,
		"max_odds":   prediction.MaxOdds,
		"big_clubs":  len(s.Scorer.BigClubs),
	}
}
