package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MessagesPublishedTotal tracks publish attempts per channel and status
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Total number of prediction messages handed to a publisher",
		},
		[]string{"channel", "status"},
	)

	// PublishDuplicatesTotal tracks predictions skipped because their key was already published
	PublishDuplicatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_duplicates_total",
			Help:      "Total number of predictions skipped as already published",
		},
		[]string{"channel"},
	)

	// StatsFetchErrorsTotal tracks failed calls to the statistics provider
	StatsFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_fetch_errors_total",
			Help:      "Total number of failed statistics provider requests",
		},
		[]string{"endpoint"},
	)

	// StatsRequestDuration tracks statistics provider latency
	StatsRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stats_request_duration_seconds",
			Help:      "Latency of statistics provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})

	// FormCacheLookupsTotal tracks team form cache hits and misses
	FormCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_cache_lookups_total",
			Help:      "Team form cache lookups by result",
		},
		[]string{"result"},
	)

	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Number of connected prediction stream clients",
	})
)

// RecordPublish records a publish attempt.
func RecordPublish(channel string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	MessagesPublishedTotal.WithLabelValues(channel, status).Inc()
}

// RecordDuplicate records a prediction skipped by deduplication.
func RecordDuplicate(channel string) {
	PublishDuplicatesTotal.WithLabelValues(channel).Inc()
}

// RecordStatsRequest records a statistics provider call.
func RecordStatsRequest(endpoint string, durationSeconds float64, err error) {
	StatsRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
	if err != nil {
		StatsFetchErrorsTotal.WithLabelValues(endpoint).Inc()
	}
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordFormCacheLookup records a form cache hit or miss.
func RecordFormCacheLookup(hit bool) {
	if hit {
		FormCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	FormCacheLookupsTotal.WithLabelValues("miss").Inc()
}

// UpdateStreamClients sets the connected stream client gauge.
func UpdateStreamClients(n int) {
	StreamClients.Set(float64(n))
}
