package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	SweepCandidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sweep_candidates_total",
			Help: "Candidate bookings returned by sweep queries",
		},
		[]string{"sweep"},
	)

	SweepTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sweep_transitions_total",
			Help: "Bookings successfully transitioned by sweeps",
		},
		[]string{"sweep"},
	)

	SweepErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_sweep_errors_total",
			Help: "Per-candidate failures during sweeps",
		},
		[]string{"sweep"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_published_total",
			Help: "Realtime events published to the update topic",
		},
		[]string{"event"},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Notification emails by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SweepCandidates)
	prometheus.MustRegister(SweepTransitions)
	prometheus.MustRegister(SweepErrors)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(EmailsSent)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
