package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 结果标签
const (
	ResultAllowed = "allowed"
	ResultDenied  = "denied"
	ResultError   = "error"
	ResultSuccess = "success"
)

// 关联关系标签
const (
	RelationAccountRole    = "account_role"
	RelationRolePermission = "role_permission"
	RelationAccountUser    = "account_user"
)

// Metrics 汇总服务内的 Prometheus 指标。方法对 nil 接收者安全，未启用指标时直接传 nil。
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AccessChecksTotal  *prometheus.CounterVec
	AssignmentsTotal   *prometheus.CounterVec
	AssignedLinksTotal *prometheus.CounterVec
	ResolveDuration    *prometheus.HistogramVec
}

// New 创建并注册指标。
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "warden_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AccessChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_access_checks_total",
				Help: "Permission checks by required code and result",
			},
			[]string{"code", "result"},
		),
		AssignmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_assignments_total",
				Help: "Replace-all assignments by relation and result",
			},
			[]string{"relation", "result"},
		),
		AssignedLinksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_assigned_links_total",
				Help: "Link rows written by replace-all assignments",
			},
			[]string{"relation"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "warden_resolve_duration_seconds",
				Help:    "Role and permission resolution duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AccessChecksTotal,
		m.AssignmentsTotal,
		m.AssignedLinksTotal,
		m.ResolveDuration,
	)
	return m
}

// ObserveAccessCheck 记录一次权限校验结果。
func (m *Metrics) ObserveAccessCheck(code, result string) {
	if m == nil {
		return
	}
	m.AccessChecksTotal.WithLabelValues(code, result).Inc()
}

// ObserveAssignment 记录一次替换式分配。
func (m *Metrics) ObserveAssignment(relation, result string, links int) {
	if m == nil {
		return
	}
	m.AssignmentsTotal.WithLabelValues(relation, result).Inc()
	if result == ResultSuccess && links > 0 {
		m.AssignedLinksTotal.WithLabelValues(relation).Add(float64(links))
	}
}

// ObserveResolve 记录解析耗时，kind 为 roles 或 permissions。
func (m *Metrics) ObserveResolve(kind string, started time.Time) {
	if m == nil {
		return
	}
	m.ResolveDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// GinMiddleware 统计 HTTP 请求。
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 返回 /metrics 处理器。
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
