// Package metrics exposes Prometheus collectors for the HTTP layer, checkup
// analysis and the reminder dispatcher.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dental"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	analysesTotal      *prometheus.CounterVec
	classifyDuration   *prometheus.HistogramVec
	conditionsDetected *prometheus.CounterVec

	reminderEmails *prometheus.CounterVec
	habitCache     *prometheus.CounterVec
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken for HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkup_analyses_total",
			Help:      "Image analyses by classifier and outcome",
		},
		[]string{"classifier", "outcome"}, // outcome: model, fallback, error
	)
	m.classifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_duration_seconds",
			Help:      "Time taken by the image classifier",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"classifier"},
	)
	m.conditionsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_detected_total",
			Help:      "Detected dental conditions",
		},
		[]string{"condition"},
	)
	m.reminderEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_emails_total",
			Help:      "Reminder emails by delivery status",
		},
		[]string{"status"}, // sent, failed, skipped
	)
	m.habitCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "habit_stats_cache_total",
			Help:      "Habit statistics cache lookups",
		},
		[]string{"result"}, // hit, miss
	)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.analysesTotal,
		m.classifyDuration,
		m.conditionsDetected,
		m.reminderEmails,
		m.habitCache,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordAnalysis counts one checkup analysis.
func (m *Metrics) RecordAnalysis(classifier, outcome string) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(classifier, outcome).Inc()
}

// ObserveClassify records classifier latency.
func (m *Metrics) ObserveClassify(classifier string, d time.Duration) {
	if m == nil {
		return
	}
	m.classifyDuration.WithLabelValues(classifier).Observe(d.Seconds())
}

// RecordCondition counts a detected condition.
func (m *Metrics) RecordCondition(name string) {
	if m == nil {
		return
	}
	m.conditionsDetected.WithLabelValues(name).Inc()
}

// RecordReminderEmail counts a reminder delivery attempt.
func (m *Metrics) RecordReminderEmail(status string) {
	if m == nil {
		return
	}
	m.reminderEmails.WithLabelValues(status).Inc()
}

// RecordHabitCache counts a stats cache lookup.
func (m *Metrics) RecordHabitCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.habitCache.WithLabelValues(result).Inc()
}
