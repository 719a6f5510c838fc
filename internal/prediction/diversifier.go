package prediction

import (
	"sort"

	"github.com/yourusername/clever-tips/internal/models"
)

const (
	minDiversifyBatch = 3
	minDrawCap        = 2
	drawShareDivisor  = 3

	// ConvertedConfidenceFactor scales the confidence of a draw rewritten to a win
	ConvertedConfidenceFactor = 0.9
)

// Distribution counts picks per outcome
type Distribution struct {
	HomeWin int `json:"home_win"`
	Draw    int `json:"draw"`
	AwayWin int `json:"away_win"`
}

// Total returns the number of counted picks
func (d Distribution) Total() int {
	return d.HomeWin + d.Draw + d.AwayWin
}

func (d *Distribution) add(o models.Outcome, n int) {
	switch o {
	case models.OutcomeHomeWin:
		d.HomeWin += n
	case models.OutcomeDraw:
		d.Draw += n
	case models.OutcomeAwayWin:
		d.AwayWin += n
	}
}

// CountPicks tallies the picks of a batch, ignoring nil entries
func CountPicks(predictions []*models.MatchPrediction) Distribution {
	var d Distribution
	for _, p := range predictions {
		if p == nil {
			continue
		}
		d.add(p.Pick, 1)
	}
	return d
}

// Report describes what Diversify did
type Report struct {
	Applied     bool         `json:"applied"`
	MaxDraws    int          `json:"max_draws"`
	DrawsBefore int          `json:"draws_before"`
	Converted   int          `json:"converted"`
	Picks       Distribution `json:"picks"`
}

// MaxDraws returns the draw cap for a batch of n predictions
func MaxDraws(n int) int {
	limit := n / drawShareDivisor
	if limit < minDrawCap {
		return minDrawCap
	}
	return limit
}

// Diversify caps the number of draw picks in a batch. When the cap is exceeded the
// most confident draws are rewritten, in place, to the directional outcome with the
// shorter odds (home on equal odds) and their confidence is scaled by
// ConvertedConfidenceFactor. Batches under three predictions are left untouched.
func Diversify(predictions []*models.MatchPrediction) Report {
	picks := CountPicks(predictions)
	report := Report{DrawsBefore: picks.Draw, Picks: picks}
	if picks.Total() < minDiversifyBatch {
		return report
	}

	report.Applied = true
	report.MaxDraws = MaxDraws(picks.Total())
	if picks.Draw <= report.MaxDraws {
		return report
	}

	ordered := make([]*models.MatchPrediction, 0, len(predictions))
	for _, p := range predictions {
		if p != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	for _, p := range ordered {
		if picks.Draw <= report.MaxDraws {
			break
		}
		if !p.IsDraw() {
			continue
		}
		target := CheaperDirectional(p.AllOdds)
		p.Pick = target
		p.Odds = p.AllOdds.Get(target)
		p.Confidence *= ConvertedConfidenceFactor
		p.Diversified = true

		picks.add(models.OutcomeDraw, -1)
		picks.add(target, 1)
		report.Converted++
	}

	report.Picks = picks
	return report
}

// CheaperDirectional returns home_win unless the away odds are strictly shorter
func CheaperDirectional(odds models.Odds) models.Outcome {
	if odds.HomeWin <= odds.AwayWin {
		return models.OutcomeHomeWin
	}
	return models.OutcomeAwayWin
}
