package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
)

func testFixture() models.Fixture {
	return models.Fixture{
		ID:      "fx-100",
		Home:    "Brighton",
		Away:    "Everton",
		League:  "Premier League",
		Kickoff: time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC),
	}
}

func TestFullStrategyPredict(t *testing.T) {
	s := NewFullStrategy(nil)
	input := Input{
		Fixture:  testFixture(),
		HomeForm: models.TeamForm{MatchesAnalyzed: 10, Wins: 6, Draws: 2, GoalsFor: 18, GoalsAgainst: 8},
		AwayForm: models.TeamForm{MatchesAnalyzed: 10, Wins: 3, Draws: 3, GoalsFor: 12, GoalsAgainst: 14},
	}

	pred, err := s.Predict(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, pred.ID)
	assert.Equal(t, "fx-100", pred.FixtureID)
	assert.Equal(t, "Premier League", pred.League)
	assert.Equal(t, FullStrategyName, pred.Strategy)
	assert.Equal(t, models.OutcomeHomeWin, pred.Pick)
	assert.Equal(t, 6.7, pred.Confidence)
	assert.Equal(t, 2.31, pred.Odds)
	assert.Equal(t, input.Fixture.Kickoff, pred.Kickoff)
	assert.False(t, pred.CreatedAt.IsZero())
	assert.Empty(t, pred.Scoreline)
}

func TestFullStrategyRejectsInvalidForm(t *testing.T) {
	s := NewFullStrategy(nil)
	input := Input{
		Fixture:  testFixture(),
		AwayForm: models.TeamForm{MatchesAnalyzed: 2, Wins: 2, Draws: 1},
	}

	_, err := s.Predict(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidForm))
	assert.Contains(t, err.Error(), "away form")
}

func TestStrategyRejectsMissingTeams(t *testing.T) {
	for _, s := range []Strategy{NewFullStrategy(nil), NewSimpleStrategy()} {
		_, err := s.Predict(context.Background(), Input{Fixture: models.Fixture{Home: "Lens"}})
		assert.True(t, errors.Is(err, models.ErrInvalidFixture), s.Name())
	}
}

func TestStrategyHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFullStrategy(nil).Predict(ctx, Input{Fixture: testFixture()})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimpleStrategyPredict(t *testing.T) {
	s := NewSimpleStrategy()

	t.Run("explicit signals", func(t *testing.T) {
		pred, err := s.Predict(context.Background(), Input{
			Fixture:     testFixture(),
			HomeSignals: &prediction.SideSignals{Form: 0.5, XG: 0.8, HomeAdvantage: 1, RedCardRisk: 1},
			AwaySignals: &prediction.SideSignals{Form: 2.5, XG: 2.1},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeAwayWin, pred.Pick)
		assert.Equal(t, "1-2", pred.Scoreline)
		assert.False(t, pred.HasOdds())
		assert.Equal(t, SimpleStrategyName, pred.Strategy)
	})

	t.Run("signals derived from form", func(t *testing.T) {
		pred, err := s.Predict(context.Background(), Input{Fixture: testFixture()})
		require.NoError(t, err)
		// neutral forms: only the home advantage separates the sides
		assert.Equal(t, models.OutcomeHomeWin, pred.Pick)
		assert.Equal(t, "2-1", pred.Scoreline)
	})
}

func TestResolve(t *testing.T) {
	full, err := Resolve("full", Options{})
	require.NoError(t, err)
	assert.Equal(t, FullStrategyName, full.Name())

	def, err := Resolve("", Options{BigClubs: []string{"Brighton"}})
	require.NoError(t, err)
	assert.True(t, def.(*FullStrategy).Scorer.BigClubs.Contains("brighton"))
	assert.False(t, def.(*FullStrategy).Scorer.BigClubs.Contains("Arsenal"))

	simple, err := Resolve("simple", Options{})
	require.NoError(t, err)
	assert.Equal(t, SimpleStrategyName, simple.Name())

	_, err = Resolve("poisson", Options{})
	assert.True(t, errors.Is(err, models.ErrUnknownStrategy))
}

func TestDescribe(t *testing.T) {
	meta := Describe(NewSimpleStrategy(), "linear")

	assert.Equal(t, SimpleStrategyName, meta.Name)
	assert.Equal(t, 0.4, meta.Parameters["xg_weight"])
	assert.Equal(t, prediction.LinearFormWeight, meta.Parameters["form_weight"])
	assert.Equal(t, prediction.LinearRedCardWeight, meta.Parameters["red_card_weight"])
}
