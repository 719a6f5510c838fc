package prediction

import "github.com/yourusername/clever-tips/internal/models"

// Linear mode weights
const (
	LinearFormWeight          = 0.3
	LinearXGWeight            = 0.4
	LinearHomeAdvantageWeight = 0.2
	LinearRedCardWeight       = 0.1
)

// Illustrative scorelines emitted by the linear mode
const (
	ScorelineHomeWin = "2-1"
	ScorelineAwayWin = "1-2"
	ScorelineDraw    = "1-1"
)

// SideSignals are the per-team inputs of the linear mode
type SideSignals struct {
	Form          float64 `json:"form"`
	XG            float64 `json:"xg"`
	HomeAdvantage float64 `json:"home_advantage"`
	RedCardRisk   float64 `json:"red_card_risk"`
}

// LinearResult is the outcome of the linear mode. It carries no odds.
type LinearResult struct {
	Outcome   models.Outcome `json:"outcome"`
	Scoreline string         `json:"scoreline"`
	HomeScore float64        `json:"home_score"`
	AwayScore float64        `json:"away_score"`
}

// Linear scores both sides with fixed weights. Home advantage adds to the home
// side and subtracts from the away side. Equal scores are a draw.
func Linear(home, away SideSignals) LinearResult {
	homeScore := home.Form*LinearFormWeight + home.XG*LinearXGWeight +
		home.HomeAdvantage*LinearHomeAdvantageWeight - home.RedCardRisk*LinearRedCardWeight
	awayScore := away.Form*LinearFormWeight + away.XG*LinearXGWeight -
		away.HomeAdvantage*LinearHomeAdvantageWeight - away.RedCardRisk*LinearRedCardWeight

	result := LinearResult{HomeScore: homeScore, AwayScore: awayScore}
	switch {
	case homeScore > awayScore:
		result.Outcome, result.Scoreline = models.OutcomeHomeWin, ScorelineHomeWin
	case awayScore > homeScore:
		result.Outcome, result.Scoreline = models.OutcomeAwayWin, ScorelineAwayWin
	default:
		result.Outcome, result.Scoreline = models.OutcomeDraw, ScorelineDraw
	}
	return result
}

// SignalsFromForm derives linear-mode signals from a team's form. The home side
// gets a home advantage of 1, red-card risk is unknown and left at 0.
func SignalsFromForm(form models.TeamForm, isHome bool) SideSignals {
	signals := SideSignals{
		Form: form.Strength(),
		XG:   form.AvgGoalsFor(),
	}
	if isHome {
		signals.HomeAdvantage = 1
	}
	return signals
}
