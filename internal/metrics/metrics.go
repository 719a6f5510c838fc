// Package metrics provides centralized Prometheus metrics registry for the prediction engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clever_tips"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_generated_total",
		Help:      "Total number of match predictions generated",
	}, []string{"strategy", "pick"})
	DrawsConvertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draws_converted_total",
		Help:      "Total number of draw picks converted by diversification",
	})
	FixturesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixtures_skipped_total",
		Help:      "Total number of fixtures skipped because inputs were unavailable or invalid",
	})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of prediction runs",
	}, []string{"status"})
)

// Gauge metrics
var (
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed prediction run",
	})
	LastRunPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_predictions",
		Help:      "Number of predictions produced by the last run",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of prediction runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_confidence",
		Help:      "Composite confidence of generated predictions",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	}, []string{"strategy"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register prediction metrics
		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(DrawsConvertedTotal)
		registry.MustRegister(FixturesSkippedTotal)
		registry.MustRegister(RunsTotal)
		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(LastRunPredictions)
		registry.MustRegister(RunDuration)
		registry.MustRegister(PredictionConfidence)

		// Register collaborator metrics
		registry.MustRegister(MessagesPublishedTotal)
		registry.MustRegister(PublishDuplicatesTotal)
		registry.MustRegister(StatsFetchErrorsTotal)
		registry.MustRegister(StatsRequestDuration)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(FormCacheLookupsTotal)
		registry.MustRegister(StreamClients)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one generated prediction.
func RecordPrediction(strategy, pick string, confidence float64) {
	PredictionsGeneratedTotal.WithLabelValues(strategy, pick).Inc()
	PredictionConfidence.WithLabelValues(strategy).Observe(confidence)
}

// RecordDrawsConverted records draw picks rewritten by diversification.
func RecordDrawsConverted(n int) {
	if n > 0 {
		DrawsConvertedTotal.Add(float64(n))
	}
}

// RecordFixtureSkipped records a fixture that produced no prediction.
func RecordFixtureSkipped() {
	FixturesSkippedTotal.Inc()
}

// RecordRun records the outcome of a prediction run.
func RecordRun(duration time.Duration, predictions int, err error) {
	RunDuration.Observe(duration.Seconds())
	if err != nil {
		RunsTotal.WithLabelValues("failed").Inc()
		return
	}
	RunsTotal.WithLabelValues("succeeded").Inc()
	LastRunTimestamp.SetToCurrentTime()
	LastRunPredictions.Set(float64(predictions))
}
