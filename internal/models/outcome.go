package models

import "fmt"

// Outcome is one of the three results of a football match
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// Outcomes is the fixed enumeration order. Ties are always broken in this order.
var Outcomes = [3]Outcome{OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin}

// Label returns a human readable label for the outcome
func (o Outcome) Label() string {
	switch o {
	case OutcomeHomeWin:
		return "Home win"
	case OutcomeDraw:
		return "Draw"
	case OutcomeAwayWin:
		return "Away win"
	default:
		return string(o)
	}
}

// IsValid reports whether o is one of the three known outcomes
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin:
		return true
	}
	return false
}

// OutcomeValues holds one real value per outcome
type OutcomeValues struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// ConfidenceScores are unnormalized strength estimates, each in [1, 10]
type ConfidenceScores = OutcomeValues

// Odds are decimal odds, each in [1.5, 10]
type Odds = OutcomeValues

// Probabilities are normalized confidence scores summing to 1
type Probabilities = OutcomeValues

// Get returns the value stored for an outcome
func (v OutcomeValues) Get(o Outcome) float64 {
	switch o {
	case OutcomeHomeWin:
		return v.HomeWin
	case OutcomeDraw:
		return v.Draw
	case OutcomeAwayWin:
		return v.AwayWin
	default:
		panic(fmt.Sprintf("models: unknown outcome %q", string(o)))
	}
}

// Set stores a value for an outcome
func (v *OutcomeValues) Set(o Outcome, value float64) {
	switch o {
	case OutcomeHomeWin:
		v.HomeWin = value
	case OutcomeDraw:
		v.Draw = value
	case OutcomeAwayWin:
		v.AwayWin = value
	default:
		panic(fmt.Sprintf("models: unknown outcome %q", string(o)))
	}
}

// Sum returns the sum of the three values
func (v OutcomeValues) Sum() float64 {
	return v.HomeWin + v.Draw + v.AwayWin
}
