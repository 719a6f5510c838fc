package publisher

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yourusername/clever-tips/internal/models"
)

const keyPrefix = "prediction"

// Formatter renders predictions as Telegram HTML and derives their dedup keys
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a formatter that renders dates in loc (UTC when nil)
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Key returns prediction:{date}:{home}:{away}, lower-cased with spaces collapsed to dashes
func (f *Formatter) Key(p *models.MatchPrediction) string {
	return strings.Join([]string{keyPrefix, f.date(p.Kickoff), slug(p.Home), slug(p.Away)}, ":")
}

// FormatPrediction renders one prediction block
func (f *Formatter) FormatPrediction(p *models.MatchPrediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s vs %s</b>\n", html.EscapeString(p.Home), html.EscapeString(p.Away))
	if p.League != "" {
		fmt.Fprintf(&b, "<i>%s</i>", html.EscapeString(p.League))
		if !p.Kickoff.IsZero() {
			fmt.Fprintf(&b, " · %s", p.Kickoff.In(f.loc).Format("15:04"))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Pick: <b>%s</b>", html.EscapeString(p.Pick.Label()))
	if p.HasOdds() {
		fmt.Fprintf(&b, " @ %.2f", p.Odds)
	}
	b.WriteString("\n")

	if p.Scoreline != "" {
		fmt.Fprintf(&b, "Score: %s\n", html.EscapeString(p.Scoreline))
	}
	// The linear mode prices nothing and has no composite confidence
	if p.HasOdds() {
		fmt.Fprintf(&b, "Confidence: %.1f/10\n", p.Confidence)
		fmt.Fprintf(&b, "Odds: 1 %.2f | X %.2f | 2 %.2f", p.AllOdds.HomeWin, p.AllOdds.Draw, p.AllOdds.AwayWin)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// FormatDigest renders a day's predictions as one message
func (f *Formatter) FormatDigest(day time.Time, predictions []*models.MatchPrediction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Predictions for %s</b>", day.In(f.loc).Format("Mon 2 Jan 2006"))

	n := 0
	for _, p := range predictions {
		if p == nil {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(f.FormatPrediction(p))
		n++
	}
	if n == 0 {
		b.WriteString("\n\nNo fixtures today.")
	}
	return b.String()
}

func (f *Formatter) date(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	return t.In(f.loc).Format("2006-01-02")
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
