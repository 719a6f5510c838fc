package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/clever-tips/internal/models"
)

func TestArgmaxTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		scores models.ConfidenceScores
		want   models.Outcome
	}{
		{name: "three way tie", scores: models.ConfidenceScores{HomeWin: 5, Draw: 5, AwayWin: 5}, want: models.OutcomeHomeWin},
		{name: "draw beats away on tie", scores: models.ConfidenceScores{HomeWin: 4, Draw: 6, AwayWin: 6}, want: models.OutcomeDraw},
		{name: "home beats away on tie", scores: models.ConfidenceScores{HomeWin: 6, Draw: 4, AwayWin: 6}, want: models.OutcomeHomeWin},
		{name: "away strictly highest", scores: models.ConfidenceScores{HomeWin: 2, Draw: 3, AwayWin: 3.01}, want: models.OutcomeAwayWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.scores))
		})
	}
}

func TestSelectOutcomeTieReturnsHomeWin(t *testing.T) {
	scores := models.ConfidenceScores{HomeWin: 5.0, Draw: 5.0, AwayWin: 5.0}
	odds, probs := ToOdds(scores)

	pred := SelectOutcome(scores, odds, probs, "Lens", "Lille")

	assert.Equal(t, models.OutcomeHomeWin, pred.Pick)
	assert.Equal(t, 5.0, pred.Confidence)
	assert.Equal(t, odds.HomeWin, pred.Odds)
}

func TestSelectOutcomeCompositeConfidence(t *testing.T) {
	scores := models.ConfidenceScores{HomeWin: 8.1, Draw: 6.6, AwayWin: 3.1}
	odds, probs := ToOdds(scores)

	pred := SelectOutcome(scores, odds, probs, "Brighton", "Everton")

	assert.Equal(t, "Brighton", pred.Home)
	assert.Equal(t, "Everton", pred.Away)
	assert.Equal(t, models.OutcomeHomeWin, pred.Pick)
	// probability weighted average, not the winning score
	assert.Equal(t, 6.7, pred.Confidence)
	assert.Equal(t, 2.31, pred.Odds)
	assert.Equal(t, odds, pred.AllOdds)
	assert.Equal(t, probs, pred.Probabilities)
	assert.Equal(t, scores, pred.Scores)
}

func TestCompositeConfidenceNeutral(t *testing.T) {
	scores := models.ConfidenceScores{HomeWin: 6.2, Draw: 6.9, AwayWin: 5.0}

	assert.Equal(t, 6.1, CompositeConfidence(scores, Normalize(scores)))
}
