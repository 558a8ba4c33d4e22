package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordAnalysis("tfserving", "model")
	m.RecordAnalysis("tfserving", "fallback")
	m.RecordAnalysis("tfserving", "fallback")
	m.RecordCondition("Caries")
	m.RecordReminderEmail("sent")
	m.RecordHabitCache(true)
	m.ObserveClassify("tfserving", 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("tfserving", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conditionsDetected.WithLabelValues("Caries")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminderEmails.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.habitCache.WithLabelValues("hit")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAnalysis("x", "model")
		m.RecordCondition("Caries")
		m.RecordReminderEmail("failed")
		m.RecordHabitCache(false)
		m.ObserveClassify("x", time.Second)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping/1", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `dental_http_requests_total{method="GET",route="/ping/:id",status_code="200"} 1`))
}
