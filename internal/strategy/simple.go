package strategy

import (
	"context"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
)

// SimpleStrategyName is the registry name of SimpleStrategy
const SimpleStrategyName = "simple"

// SimpleStrategy uses the linear mode. It emits an illustrative scoreline and no odds.
type SimpleStrategy struct {
	BaseStrategy
}

// NewSimpleStrategy creates the linear strategy
func NewSimpleStrategy() *SimpleStrategy {
	return &SimpleStrategy{BaseStrategy: newBaseStrategy()}
}

// Name returns strategy name
func (s *SimpleStrategy) Name() string {
	return SimpleStrategyName
}

// Predict runs the linear mode, deriving missing signals from form
func (s *SimpleStrategy) Predict(ctx context.Context, input Input) (*models.MatchPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ValidateInput(input); err != nil {
		return nil, err
	}

	home := prediction.SignalsFromForm(input.HomeForm, true)
	if input.HomeSignals != nil {
		home = *input.HomeSignals
	}
	away := prediction.SignalsFromForm(input.AwayForm, false)
	if input.AwaySignals != nil {
		away = *input.AwaySignals
	}

	result := prediction.Linear(home, away)
	pred := &models.MatchPrediction{
		Pick:      result.Outcome,
		Scoreline: result.Scoreline,
	}
	s.Stamp(pred, input, s.Name())
	return pred, nil
}

// GetParameters returns strategy parameters
func (s *SimpleStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"form_weight":           prediction.LinearFormWeight,
		"xg_weight":             prediction.LinearXGWeight,
		"home_advantage_weight": prediction.LinearHomeAdvantageWeight,
		"red_card_weight":       prediction.LinearRedCardWeight,
	}
}
