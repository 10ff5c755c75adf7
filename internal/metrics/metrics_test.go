package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/ping", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNilSafeCounters(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncAuditFailure()
		m.IncQuotaRejection("project")
		m.IncAuthorizationDenial("create_project")
	})

	live := New()
	live.IncQuotaRejection("project")
	live.IncAuditFailure()
	assert.Equal(t, float64(1), testutil.ToFloat64(live.QuotaRejections.WithLabelValues("project")))
	assert.Equal(t, float64(1), testutil.ToFloat64(live.AuditWriteFailures))
}
