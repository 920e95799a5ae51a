// Package metrics регистрирует метрики Prometheus сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "entertainlit_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Домен
	ConsumptionLogsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_consumption_logs_created_total",
			Help: "Total number of consumption logs created",
		},
		[]string{"category"},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entertainlit_points_awarded_total",
			Help: "Total points credited to users",
		},
	)

	// События
	ActivityEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_activity_events_published_total",
			Help: "Activity events handed to the transport, by result",
		},
		[]string{"result"},
	)

	ActivityEventsProjected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_activity_events_projected_total",
			Help: "Activity events processed by the projector, by result",
		},
		[]string{"result"},
	)

	// Внешние функции
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "entertainlit_external_call_duration_seconds",
			Help:    "Latency of hosted function calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"function"},
	)

	DegradedResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_degraded_responses_total",
			Help: "Responses served from fallback because a hosted function failed",
		},
		[]string{"function", "source"}, // source: cache | empty
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "entertainlit_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker, by result",
		},
		[]string{"name", "result"}, // success | failure | rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entertainlit_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest записывает одну обработку HTTP-запроса.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordConsumptionLog учитывает новую запись и начисленные за неё очки.
func RecordConsumptionLog(category string, points int) {
	ConsumptionLogsCreated.WithLabelValues(category).Inc()
	PointsAwarded.Add(float64(points))
}

func RecordPublish(err error) {
	ActivityEventsPublished.WithLabelValues(result(err)).Inc()
}

func RecordProjection(err error) {
	ActivityEventsProjected.WithLabelValues(result(err)).Inc()
}

func RecordExternalCall(function string, duration time.Duration) {
	ExternalCallDuration.WithLabelValues(function).Observe(duration.Seconds())
}

func RecordDegraded(function, source string) {
	DegradedResponses.WithLabelValues(function, source).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
