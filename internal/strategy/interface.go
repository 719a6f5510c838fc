package strategy

import (
	"context"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
)

// Strategy turns one fixture and its statistics into a prediction
type Strategy interface {
	Name() string
	Predict(ctx context.Context, input Input) (*models.MatchPrediction, error)
	GetParameters() map[string]interface{}
}

// Input carries everything a strategy may read for one fixture.
// Signals are optional; strategies that need them derive them from form.
type Input struct {
	Fixture     models.Fixture          `json:"fixture" validate:"required"`
	HomeForm    models.TeamForm         `json:"home_form"`
	AwayForm    models.TeamForm         `json:"away_form"`
	HomeSignals *prediction.SideSignals `json:"home_signals,omitempty"`
	AwaySignals *prediction.SideSignals `json:"away_signals,omitempty"`
}

// StrategyMetadata describes a strategy for logging and the API
type StrategyMetadata struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Describe returns the metadata of a strategy
func Describe(s Strategy, description string) StrategyMetadata {
	return StrategyMetadata{
		Name:        s.Name(),
		Description: description,
		Parameters:  s.GetParameters(),
	}
}
