// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-tips/internal/models"
)

// PredictionLogger provides dedicated logging for prediction runs.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPrediction logs a single finished prediction.
func (pl *PredictionLogger) LogPrediction(runID string, pred *models.MatchPrediction) {
	pl.WithFields(logrus.Fields{
		"run_id":     runID,
		"strategy":   pred.Strategy,
		"home":       pred.Home,
		"away":       pred.Away,
		"league":     pred.League,
		"pick":       string(pred.Pick),
		"confidence": pred.Confidence,
		"odds":       pred.Odds,
		"scoreline":  pred.Scoreline,
	}).Debug("Prediction generated")
}

// LogFixtureSkipped logs a fixture that could not be predicted.
func (pl *PredictionLogger) LogFixtureSkipped(runID string, fixture models.Fixture, err error) {
	pl.WithFields(logrus.Fields{
		"run_id":     runID,
		"fixture_id": fixture.Key(),
		"home":       fixture.Home,
		"away":       fixture.Away,
		"league":     fixture.League,
	}).WithError(err).Warn("Fixture skipped")
}

// LogDiversification logs a draw-cap adjustment over a batch.
func (pl *PredictionLogger) LogDiversification(runID string, maxDraws, drawsBefore, converted int) {
	pl.WithFields(logrus.Fields{
		"run_id":       runID,
		"max_draws":    maxDraws,
		"draws_before": drawsBefore,
		"converted":    converted,
	}).Info("Draw picks diversified")
}

// LogRunCompleted logs the end of a daily run.
func (pl *PredictionLogger) LogRunCompleted(runID, day, strategyName string, predictions, skipped int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"day":         day,
		"strategy":    strategyName,
		"predictions": predictions,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("Prediction run completed")
}
