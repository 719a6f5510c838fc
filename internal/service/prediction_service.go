// Package service runs the daily prediction pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/clever-tips/internal/logger"
	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
	"github.com/yourusername/clever-tips/internal/publisher"
	"github.com/yourusername/clever-tips/internal/stats"
	"github.com/yourusername/clever-tips/internal/store"
	"github.com/yourusername/clever-tips/internal/strategy"
)

const defaultConcurrency = 4

// Options tune a PredictionService
type Options struct {
	// Diversify caps draw picks across each run's batch
	Diversify bool
	// Publish hands each run's batch to the publisher
	Publish bool
	// Concurrency bounds parallel per-fixture work
	Concurrency int
	// StrategyOptions are used when PredictFixture resolves a strategy by name
	StrategyOptions strategy.Options
}

// SkippedFixture is a fixture that produced no prediction
type SkippedFixture struct {
	Fixture models.Fixture `json:"fixture"`
	Reason  string         `json:"reason"`
}

// RunResult summarizes one prediction run
type RunResult struct {
	RunID       uuid.UUID                 `json:"run_id"`
	Day         string                    `json:"day"`
	Strategy    string                    `json:"strategy"`
	Predictions []*models.MatchPrediction `json:"predictions"`
	Report      prediction.Report         `json:"diversification"`
	Skipped     []SkippedFixture          `json:"skipped,omitempty"`
	Published   bool                      `json:"published"`
	Duration    time.Duration             `json:"duration_ns"`
}

// PredictionService fetches a day's fixtures and form, runs a strategy over
// them and hands the batch to storage and publishers.
type PredictionService struct {
	fixtures  stats.FixtureSource
	forms     stats.FormProvider
	strategy  strategy.Strategy
	repo      store.PredictionRepository
	publisher publisher.Publisher
	opts      Options
	logger    *logrus.Logger
	plog      *logger.PredictionLogger
}

// NewPredictionService creates a new prediction service. repo and pub may be nil.
func NewPredictionService(
	fixtures stats.FixtureSource,
	forms stats.FormProvider,
	strat strategy.Strategy,
	repo store.PredictionRepository,
	pub publisher.Publisher,
	opts Options,
	log *logrus.Logger,
) *PredictionService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &PredictionService{
		fixtures:  fixtures,
		forms:     forms,
		strategy:  strat,
		repo:      repo,
		publisher: pub,
		opts:      opts,
		logger:    log,
		plog:      logger.NewPredictionLogger(log),
	}
}

// Strategy returns the configured strategy
func (s *PredictionService) Strategy() strategy.Strategy {
	return s.strategy
}

// WithStrategy returns a copy of the service that uses strat
func (s *PredictionService) WithStrategy(strat strategy.Strategy) *PredictionService {
	cp := *s
	cp.strategy = strat
	return &cp
}

// WithPublish returns a copy of the service with publishing switched on or off
func (s *PredictionService) WithPublish(publish bool) *PredictionService {
	cp := *s
	cp.opts.Publish = publish
	return &cp
}

// Run predicts every fixture on day. Fixtures whose inputs cannot be fetched
// or validated are skipped and reported. A failed fixture listing aborts the
// run; storage and publish failures are returned alongside the result.
func (s *PredictionService) Run(ctx context.Context, day time.Time) (result *RunResult, err error) {
	start := time.Now()
	runID := uuid.New()
	dayStr := day.Format("2006-01-02")
	log := s.logger.WithFields(logrus.Fields{"run_id": runID.String(), "day": dayStr, "strategy": s.strategy.Name()})

	defer func() {
		n := 0
		if result != nil {
			n = len(result.Predictions)
			result.Duration = time.Since(start)
		}
		metrics.RecordRun(time.Since(start), n, err)
	}()

	log.Info("Starting prediction run")

	fixtures, err := s.fixtures.Fixtures(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures for %s: %w", dayStr, err)
	}

	predictions, skipped, err := s.predictAll(ctx, runID.String(), fixtures)
	if err != nil {
		return nil, err
	}

	result = &RunResult{
		RunID:       runID,
		Day:         dayStr,
		Strategy:    s.strategy.Name(),
		Predictions: predictions,
		Skipped:     skipped,
	}

	if s.opts.Diversify && allPriced(predictions) {
		result.Report = prediction.Diversify(predictions)
		if result.Report.Converted > 0 {
			s.plog.LogDiversification(runID.String(), result.Report.MaxDraws, result.Report.DrawsBefore, result.Report.Converted)
			metrics.RecordDrawsConverted(result.Report.Converted)
		}
	} else {
		result.Report = prediction.Report{DrawsBefore: prediction.CountPicks(predictions).Draw, Picks: prediction.CountPicks(predictions)}
	}

	for _, p := range predictions {
		metrics.RecordPrediction(p.Strategy, string(p.Pick), p.Confidence)
		s.plog.LogPrediction(runID.String(), p)
	}

	var errs []error
	if s.repo != nil && len(predictions) > 0 {
		if err := s.repo.SaveBatch(ctx, predictions); err != nil {
			log.WithError(err).Error("Failed to store predictions")
			errs = append(errs, fmt.Errorf("store predictions: %w", err))
		}
	}

	if s.opts.Publish && s.publisher != nil && len(predictions) > 0 {
		if err := s.publisher.Publish(ctx, predictions); err != nil {
			log.WithError(err).Error("Failed to publish predictions")
			errs = append(errs, fmt.Errorf("publish predictions: %w", err))
		} else {
			result.Published = true
		}
	}

	s.plog.LogRunCompleted(runID.String(), dayStr, s.strategy.Name(), len(predictions), len(skipped),
		float64(time.Since(start).Milliseconds()))

	return result, errors.Join(errs...)
}

// PredictFixture runs one prediction outside a daily run. An empty name uses
// the configured strategy.
func (s *PredictionService) PredictFixture(ctx context.Context, input strategy.Input, strategyName string) (*models.MatchPrediction, error) {
	strat := s.strategy
	if strategyName != "" && strategyName != strat.Name() {
		resolved, err := strategy.Resolve(strategyName, s.opts.StrategyOptions)
		if err != nil {
			return nil, err
		}
		strat = resolved
	}

	pred, err := strat.Predict(ctx, input)
	if err != nil {
		return nil, err
	}
	metrics.RecordPrediction(pred.Strategy, string(pred.Pick), pred.Confidence)
	return pred, nil
}

// predictAll predicts fixtures concurrently while keeping the fixture order
func (s *PredictionService) predictAll(ctx context.Context, runID string, fixtures []models.Fixture) ([]*models.MatchPrediction, []SkippedFixture, error) {
	results := make([]*models.MatchPrediction, len(fixtures))
	reasons := make([]error, len(fixtures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i := range fixtures {
		i := i
		g.Go(func() error {
			pred, err := s.predictOne(gctx, fixtures[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				reasons[i] = err
				return nil
			}
			results[i] = pred
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("prediction run aborted: %w", err)
	}

	predictions := make([]*models.MatchPrediction, 0, len(fixtures))
	var skipped []SkippedFixture
	for i, f := range fixtures {
		if reasons[i] != nil {
			s.plog.LogFixtureSkipped(runID, f, reasons[i])
			metrics.RecordFixtureSkipped()
			skipped = append(skipped, SkippedFixture{Fixture: f, Reason: reasons[i].Error()})
			continue
		}
		predictions = append(predictions, results[i])
	}
	return predictions, skipped, nil
}

func (s *PredictionService) predictOne(ctx context.Context, f models.Fixture) (*models.MatchPrediction, error) {
	homeForm, err := s.forms.Form(ctx, f.Home, f.League)
	if err != nil {
		return nil, fmt.Errorf("home form: %w", err)
	}
	awayForm, err := s.forms.Form(ctx, f.Away, f.League)
	if err != nil {
		return nil, fmt.Errorf("away form: %w", err)
	}

	return s.strategy.Predict(ctx, strategy.Input{
		Fixture:  f,
		HomeForm: homeForm,
		AwayForm: awayForm,
	})
}

// allPriced reports whether every prediction carries odds; diversification
// needs them to pick the replacement outcome.
func allPriced(predictions []*models.MatchPrediction) bool {
	for _, p := range predictions {
		if !p.HasOdds() {
			return false
		}
	}
	return true
}
