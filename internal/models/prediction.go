package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchPrediction is the finished record for one fixture.
// It is built once by a strategy and rewritten at most once by the diversifier.
type MatchPrediction struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	FixtureID     string           `db:"fixture_id" json:"fixture_id,omitempty"`
	Home          string           `db:"home" json:"home"`
	Away          string           `db:"away" json:"away"`
	League        string           `db:"league" json:"league"`
	Pick          Outcome          `db:"pick" json:"pick"`
	Confidence    float64          `db:"confidence" json:"confidence"`
	Odds          float64          `db:"odds" json:"odds"`
	AllOdds       Odds             `db:"all_odds" json:"all_odds"`
	Probabilities Probabilities    `db:"probabilities" json:"probabilities"`
	Scores        ConfidenceScores `db:"scores" json:"scores"`
	Strategy      string           `db:"strategy" json:"strategy"`
	Scoreline     string           `db:"scoreline" json:"scoreline,omitempty"`
	Diversified   bool             `db:"diversified" json:"diversified"`
	Kickoff       time.Time        `db:"kickoff" json:"kickoff"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// IsDraw reports whether the pick is a draw
func (p *MatchPrediction) IsDraw() bool {
	return p.Pick == OutcomeDraw
}

// HasOdds reports whether the prediction carries odds (the linear mode does not)
func (p *MatchPrediction) HasOdds() bool {
	return p.Odds > 0
}

// ApplyFixture copies fixture identity onto the prediction
func (p *MatchPrediction) ApplyFixture(f Fixture) {
	p.FixtureID = f.ID
	p.Home = f.Home
	p.Away = f.Away
	p.League = f.League
	p.Kickoff = f.Kickoff
}
