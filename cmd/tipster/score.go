package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/strategy"
)

func newScoreCmd() *cobra.Command {
	var (
		input        strategy.Input
		strategyName string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single fixture from form given on the command line",
		Example: `  tipster score --home Arsenal --away Everton --league "Premier League" \
    --home-matches 10 --home-wins 7 --home-draws 2 --home-gf 20 --home-ga 8 \
    --away-matches 10 --away-wins 2 --away-draws 3 --away-gf 9 --away-ga 17`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategyName == "" {
				strategyName = cfg.Engine.Strategy
			}
			strat, err := strategy.Resolve(strategyName, strategy.Options{BigClubs: cfg.Engine.BigClubs})
			if err != nil {
				return err
			}

			pred, err := strat.Predict(cmd.Context(), input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pred)
		},
	}

	f := cmd.Flags()
	f.StringVar(&input.Fixture.Home, "home", "", "Home team")
	f.StringVar(&input.Fixture.Away, "away", "", "Away team")
	f.StringVar(&input.Fixture.League, "league", "", "League or competition")
	formFlags(cmd, "home", &input.HomeForm)
	formFlags(cmd, "away", &input.AwayForm)
	f.StringVar(&strategyName, "strategy", "", "Strategy to use (full or simple)")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")
	return cmd
}

func formFlags(cmd *cobra.Command, side string, form *models.TeamForm) {
	f := cmd.Flags()
	f.IntVar(&form.MatchesAnalyzed, side+"-matches", 0, "Matches analyzed for the "+side+" team")
	f.IntVar(&form.Wins, side+"-wins", 0, "Wins of the "+side+" team")
	f.IntVar(&form.Draws, side+"-draws", 0, "Draws of the "+side+" team")
	f.IntVar(&form.GoalsFor, side+"-gf", 0, "Goals scored by the "+side+" team")
	f.IntVar(&form.GoalsAgainst, side+"-ga", 0, "Goals conceded by the "+side+" team")
}
