// Package metrics exposes Prometheus counters for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bmi_planner"

var (
	once sync.Once

	calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Count of BMI calculations by category and severity.",
		},
		[]string{"category", "severe"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Count of rejected calculator forms by field.",
		},
		[]string{"field"},
	)

	historyWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_warnings_total",
			Help:      "Count of non-fatal history load/save failures.",
		},
		[]string{"op"},
	)

	chatQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_queries_total",
			Help:      "Count of answered chat queries by matched rule.",
		},
		[]string{"rule"},
	)

	chatRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_rejected_total",
			Help:      "Count of chat queries rejected while another was in flight.",
		},
	)

	waterLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "water_logged_ml_total",
			Help:      "Total millilitres of water logged.",
		},
	)

	exportsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_created_total",
			Help:      "Count of exports by kind, format and status.",
		},
		[]string{"kind", "format", "status"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter.",
		},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			calculations,
			validationFailures,
			historyWarnings,
			chatQueries,
			chatRejected,
			waterLogged,
			exportsCreated,
			rateLimited,
			httpDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncCalculation(category string, severe bool) {
	calculations.WithLabelValues(category, strconv.FormatBool(severe)).Inc()
}

func IncValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}

func IncHistoryWarning(op string) {
	historyWarnings.WithLabelValues(op).Inc()
}

func IncChatQuery(rule string) {
	chatQueries.WithLabelValues(rule).Inc()
}

func IncChatRejected() {
	chatRejected.Inc()
}

func AddWaterLogged(ml int) {
	waterLogged.Add(float64(ml))
}

func IncExport(kind, format, status string) {
	exportsCreated.WithLabelValues(kind, format, status).Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request latency. The route label is the matched
// ServeMux pattern so ids in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}
