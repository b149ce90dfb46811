// Package metrics exposes Prometheus counters for practice sessions and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spt_sessions_total",
		Help: "Practice sessions by speech type and outcome",
	}, []string{"speech_type", "outcome"}) // outcome=started|completed|stopped|reset

	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spt_alerts_total",
		Help: "Threshold alerts shown to the speaker",
	}, []string{"speech_type"})

	activeCountdowns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spt_active_countdowns",
		Help: "Countdowns currently running or paused",
	})

	speechSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spt_speech_elapsed_seconds",
		Help:    "Elapsed seconds of finished sessions",
		Buckets: []float64{30, 60, 90, 120, 150, 180, 240, 300, 420, 600},
	}, []string{"speech_type"})

	topicRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spt_topic_requests_total",
		Help: "Topic draws by theme and outcome",
	}, []string{"theme", "outcome"}) // outcome=ok|invalid

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spt_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spt_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func IncSessionStarted(speechType string) {
	sessionsTotal.WithLabelValues(speechType, "started").Inc()
	activeCountdowns.Inc()
}

// RecordSessionEnded counts a finished session and observes its elapsed time.
func RecordSessionEnded(speechType, outcome string, elapsedSeconds int) {
	sessionsTotal.WithLabelValues(speechType, outcome).Inc()
	speechSeconds.WithLabelValues(speechType).Observe(float64(elapsedSeconds))
	activeCountdowns.Dec()
}

func IncAlert(speechType string) { alertsTotal.WithLabelValues(speechType).Inc() }

func IncTopicRequest(theme string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "invalid"
		theme = "unknown"
	}
	topicRequestsTotal.WithLabelValues(theme, outcome).Inc()
}

func IncHTTPRequest(route, code string) { httpRequestsTotal.WithLabelValues(route, code).Inc() }

func IncRateLimited() { rateLimited.Inc() }
