package models

import (
	"fmt"
)

// DefaultAverageGoals is used for both goals for and against when no matches were analyzed
const DefaultAverageGoals = 1.5

// TeamForm is a team's recent record over the lookback window
type TeamForm struct {
	MatchesAnalyzed int `json:"matches_analyzed" validate:"gte=0"`
	Wins            int `json:"wins" validate:"gte=0"`
	Draws           int `json:"draws" validate:"gte=0"`
	GoalsFor        int `json:"gf" validate:"gte=0"`
	GoalsAgainst    int `json:"ga" validate:"gte=0"`
}

// HasMatches reports whether any matches were analyzed
func (f TeamForm) HasMatches() bool {
	return f.MatchesAnalyzed > 0
}

// Strength returns points per match, (wins*3 + draws) / matches
func (f TeamForm) Strength() float64 {
	if !f.HasMatches() {
		return 0
	}
	return float64(f.Wins*3+f.Draws) / float64(f.MatchesAnalyzed)
}

// AvgGoalsFor returns average goals scored per match
func (f TeamForm) AvgGoalsFor() float64 {
	if !f.HasMatches() {
		return DefaultAverageGoals
	}
	return float64(f.GoalsFor) / float64(f.MatchesAnalyzed)
}

// AvgGoalsAgainst returns average goals conceded per match
func (f TeamForm) AvgGoalsAgainst() float64 {
	if !f.HasMatches() {
		return DefaultAverageGoals
	}
	return float64(f.GoalsAgainst) / float64(f.MatchesAnalyzed)
}

// Validate checks the cross-field constraint wins + draws <= matches
func (f TeamForm) Validate() error {
	if f.MatchesAnalyzed < 0 || f.Wins < 0 || f.Draws < 0 || f.GoalsFor < 0 || f.GoalsAgainst < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidForm)
	}
	if f.Wins+f.Draws > f.MatchesAnalyzed {
		return fmt.Errorf("%w: wins (%d) + draws (%d) exceed matches analyzed (%d)",
			ErrInvalidForm, f.Wins, f.Draws, f.MatchesAnalyzed)
	}
	return nil
}
