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

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAccessCheck("add:role:info", ResultAllowed)
		m.ObserveAssignment(RelationAccountRole, ResultSuccess, 3)
		m.ObserveResolve("roles", time.Now())
	})
}

func TestObserveAssignment(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAssignment(RelationAccountRole, ResultSuccess, 2)
	m.ObserveAssignment(RelationAccountRole, ResultError, 5)
	m.ObserveAccessCheck("query:role:info", ResultDenied)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssignmentsTotal.WithLabelValues(RelationAccountRole, ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssignmentsTotal.WithLabelValues(RelationAccountRole, ResultError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssignedLinksTotal.WithLabelValues(RelationAccountRole)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessChecksTotal.WithLabelValues("query:role:info", ResultDenied)))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := New(registry)

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(Handler(registry)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "warden_http_requests_total"))
}
