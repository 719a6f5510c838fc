package prediction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-tips/internal/models"
)

func TestToOdds(t *testing.T) {
	tests := []struct {
		name   string
		scores models.ConfidenceScores
		want   models.Odds
	}{
		{
			name:   "neutral scores",
			scores: models.ConfidenceScores{HomeWin: 6.2, Draw: 6.9, AwayWin: 5.0},
			want:   models.Odds{HomeWin: 3.07, Draw: 2.75, AwayWin: 3.80},
		},
		{
			name:   "long shot clamped to max",
			scores: models.ConfidenceScores{HomeWin: 10, Draw: 5.7, AwayWin: 1},
			want:   models.Odds{HomeWin: 1.75, Draw: 3.08, AwayWin: MaxOdds},
		},
		{
			name:   "favourite clamped to min",
			scores: models.ConfidenceScores{HomeWin: 10, Draw: 1, AwayWin: 1},
			want:   models.Odds{HomeWin: MinOdds, Draw: MaxOdds, AwayWin: MaxOdds},
		},
		{
			name:   "all zero falls back to uniform",
			scores: models.ConfidenceScores{},
			want:   models.Odds{HomeWin: 3.15, Draw: 3.15, AwayWin: 3.15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			odds, probs := ToOdds(tt.scores)

			assert.InDelta(t, tt.want.HomeWin, odds.HomeWin, 1e-9)
			assert.InDelta(t, tt.want.Draw, odds.Draw, 1e-9)
			assert.InDelta(t, tt.want.AwayWin, odds.AwayWin, 1e-9)
			assert.InDelta(t, 1.0, probs.Sum(), 1e-9)
		})
	}
}

func TestToOddsInvariants(t *testing.T) {
	forms := []models.TeamForm{
		{},
		{MatchesAnalyzed: 3, Wins: 3, GoalsFor: 12},
		{MatchesAnalyzed: 8, Wins: 1, Draws: 6, GoalsFor: 6, GoalsAgainst: 7},
		{MatchesAnalyzed: 10, GoalsAgainst: 30},
	}

	for _, h := range forms {
		for _, a := range forms {
			scores := Score(h, a, "Inter", "Lazio", "Serie A")

			var odds models.Odds
			var probs models.Probabilities
			require.NotPanics(t, func() { odds, probs = ToOdds(scores) })

			assert.InDelta(t, 1.0, probs.Sum(), 1e-9)
			for _, o := range models.Outcomes {
				assert.GreaterOrEqual(t, odds.Get(o), MinOdds)
				assert.LessOrEqual(t, odds.Get(o), MaxOdds)
				assert.Greater(t, probs.Get(o), 0.0)
				assert.Less(t, probs.Get(o), 1.0)
			}
		}
	}
}

// Pricing at Overround/p puts the implied book at 1/Overround. Clamping each
// outcome independently breaks that; the book is not renormalized afterwards.
func TestClampedBookMarginIsApproximate(t *testing.T) {
	odds, _ := ToOdds(models.ConfidenceScores{HomeWin: 10, Draw: 1, AwayWin: 1})

	margin := BookMargin(odds)

	assert.InDelta(t, 1/MinOdds+2/MaxOdds, margin, 1e-9)
	assert.Greater(t, math.Abs(margin-1/Overround), 0.05)
}

func TestUnclampedBookMarginNearOverround(t *testing.T) {
	odds, _ := ToOdds(models.ConfidenceScores{HomeWin: 6.2, Draw: 6.9, AwayWin: 5.0})

	assert.InDelta(t, 1/Overround, BookMargin(odds), 0.01)
}

func TestPriceOutcome(t *testing.T) {
	assert.Equal(t, MaxOdds, PriceOutcome(0))
	assert.Equal(t, MaxOdds, PriceOutcome(-0.2))
	assert.Equal(t, 2.1, PriceOutcome(0.5))
	assert.Equal(t, MinOdds, PriceOutcome(0.99))
}
