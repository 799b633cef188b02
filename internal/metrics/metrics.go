// Package metrics exposes Prometheus collectors for quiz and impact activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	quizStarted     *prometheus.CounterVec
	quizAnswers     *prometheus.CounterVec
	quizFinished    *prometheus.CounterVec
	impactComputed  *prometheus.CounterVec
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		quizStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_sessions_started_total",
				Help: "Quiz runs started, including retakes",
			},
			[]string{"bank"},
		),
		quizAnswers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_submitted_total",
				Help: "Quiz answers submitted",
			},
			[]string{"correct"},
		),
		quizFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_sessions_finished_total",
				Help: "Quiz runs that reached the last question",
			},
			[]string{"bank"},
		),
		impactComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impact_calculations_total",
				Help: "Donation impact calculations",
			},
			[]string{"fallback"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		m.quizStarted,
		m.quizAnswers,
		m.quizFinished,
		m.impactComputed,
		m.requestCounter,
		m.requestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) QuizStarted(bank string) {
	if m == nil {
		return
	}
	m.quizStarted.WithLabelValues(bank).Inc()
}

func (m *Metrics) AnswerSubmitted(correct bool) {
	if m == nil {
		return
	}
	m.quizAnswers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) QuizFinished(bank string) {
	if m == nil {
		return
	}
	m.quizFinished.WithLabelValues(bank).Inc()
}

func (m *Metrics) ImpactCalculated(fallback bool) {
	if m == nil {
		return
	}
	m.impactComputed.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

// Middleware records request counts and latency under the given route label.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
