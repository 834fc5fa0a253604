package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics HTTP 与业务指标
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LoginsTotal     prometheus.Counter
	AuthFailures    *prometheus.CounterVec
}

// New 在给定 Registerer 上注册指标；reg 为 nil 时使用默认 Registerer
// 测试中传入 prometheus.NewRegistry() 避免重复注册
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		LoginsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of successful logins",
		}),

		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Requests rejected by the auth middleware",
		}, []string{"reason"}),
	}
}
