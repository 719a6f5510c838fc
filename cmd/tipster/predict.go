package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/clever-tips/internal/strategy"
)

func newPredictCmd() *cobra.Command {
	var (
		date         string
		publish      bool
		strategyName string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run predictions for one day and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Location()
			day := time.Now().In(loc)
			if date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", date, loc)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = parsed
			}

			var override strategy.Strategy
			if strategyName != "" {
				strat, err := strategy.Resolve(strategyName, strategy.Options{BigClubs: cfg.Engine.BigClubs})
				if err != nil {
					return err
				}
				override = strat
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, appLog, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			svc := a.service.WithPublish(publish)
			if override != nil {
				svc = svc.WithStrategy(override)
			}

			result, runErr := svc.Run(ctx, day)
			if result != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to predict (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish predictions to the configured channels")
	cmd.Flags().StringVar(&strategyName, "strategy", "", "Strategy to use (full or simple)")
	return cmd
}
