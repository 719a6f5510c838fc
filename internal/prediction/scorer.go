package prediction

import (
	"math"
	"strings"

	"github.com/yourusername/clever-tips/internal/models"
)

// Weights of the additive confidence model
const (
	BaseScore = 5.0

	formWeight          = 2.0
	goalDiffWeight      = 0.5
	drawProximityWeight = 1.5
	drawProximityRange  = 3.0

	homeAdvantageWin  = 1.2
	homeAdvantageDraw = 0.4

	bigClubWin  = 1.5
	bigClubDraw = 0.3

	championsDrawPenalty = 0.5

	MinScore = 1.0
	MaxScore = 10.0
)

// Scorer computes confidence scores. The zero value has an empty big-club set.
type Scorer struct {
	BigClubs ClubSet
}

var defaultScorer = NewScorer(nil)

// NewScorer creates a scorer. A nil set selects DefaultBigClubs.
func NewScorer(bigClubs ClubSet) *Scorer {
	if bigClubs == nil {
		bigClubs = DefaultBigClubs()
	}
	return &Scorer{BigClubs: bigClubs}
}

// Score uses the default big-club set
func Score(home, away models.TeamForm, homeTeam, awayTeam, league string) models.ConfidenceScores {
	return defaultScorer.Score(home, away, homeTeam, awayTeam, league)
}

// Score returns a confidence score per outcome, each clamped to [MinScore, MaxScore].
// It never fails: missing statistics fall back to neutral defaults.
func (s *Scorer) Score(home, away models.TeamForm, homeTeam, awayTeam, league string) models.ConfidenceScores {
	scores := models.ConfidenceScores{
		HomeWin: BaseScore,
		Draw:    BaseScore,
		AwayWin: BaseScore,
	}

	// recent form, only when both sides have history
	if home.HasMatches() && away.HasMatches() {
		diff := home.Strength() - away.Strength()
		scores.HomeWin += diff * formWeight
		scores.AwayWin -= diff * formWeight
	}

	expectedHome := (home.AvgGoalsFor() + away.AvgGoalsAgainst()) / 2
	expectedAway := (away.AvgGoalsFor() + home.AvgGoalsAgainst()) / 2
	goalDiff := expectedHome - expectedAway
	scores.HomeWin += goalDiff * goalDiffWeight
	scores.AwayWin -= goalDiff * goalDiffWeight

	proximity := 1 - math.Min(1, math.Abs(goalDiff)/drawProximityRange)
	scores.Draw += proximity * drawProximityWeight

	scores.HomeWin += homeAdvantageWin
	scores.Draw += homeAdvantageDraw

	if s.isBigClub(homeTeam) {
		scores.HomeWin += bigClubWin
		scores.Draw += bigClubDraw
	}
	if s.isBigClub(awayTeam) {
		scores.AwayWin += bigClubWin
		scores.Draw += bigClubDraw
	}

	if IsChampionsLeague(league) {
		scores.Draw -= championsDrawPenalty
	}

	for _, o := range models.Outcomes {
		scores.Set(o, clamp(scores.Get(o), MinScore, MaxScore))
	}
	return scores
}

func (s *Scorer) isBigClub(team string) bool {
	if s == nil || s.BigClubs == nil {
		return false
	}
	return s.BigClubs.Contains(team)
}

// IsChampionsLeague reports whether the competition name mentions "champions"
func IsChampionsLeague(league string) bool {
	return strings.Contains(strings.ToLower(league), "champions")
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
