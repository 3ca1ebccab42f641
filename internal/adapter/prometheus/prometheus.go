package prometheus

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

const appName = "cache_microservice"

type PrometheusAdapter struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheOperationsTotal   *prometheus.CounterVec
	cacheOperationDuration *prometheus.HistogramVec
	cacheAlive             prometheus.Gauge
}

// NewPrometheusAdapter registers the collectors with the default registry,
// which is what /metrics serves.
func NewPrometheusAdapter() *PrometheusAdapter {
	return NewPrometheusAdapterWithRegistry(prometheus.DefaultRegisterer)
}

func NewPrometheusAdapterWithRegistry(reg prometheus.Registerer) *PrometheusAdapter {
	adapter := &PrometheusAdapter{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status", "app_name"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "Duration API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method", "status", "app_name"},
		),
		cacheOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operation_total",
				Help: "Cache operations by outcome",
			},
			[]string{"operation", "status"},
		),
		cacheOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cache_operation_duration_seconds",
				Help:    "Time taken for each cache operation",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"operation"},
		),
		cacheAlive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cache_alive",
				Help: "1 if the last cache connection event was a connect, 0 after an error",
			},
		),
	}

	reg.MustRegister(
		adapter.httpRequestsTotal,
		adapter.httpRequestDuration,
		adapter.cacheOperationsTotal,
		adapter.cacheOperationDuration,
		adapter.cacheAlive,
	)

	adapter.httpRequestsTotal.WithLabelValues("/health", "GET", "200", appName).Add(0)
	return adapter
}

func (p *PrometheusAdapter) IncrementCounter(name string, labels map[string]string) {
	p.httpRequestsTotal.WithLabelValues(
		labels["path"],
		labels["method"],
		labels["status"],
		appName,
	).Inc()
}

func (p *PrometheusAdapter) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	p.httpRequestDuration.WithLabelValues(
		labels["path"],
		labels["method"],
		labels["status"],
		appName,
	).Observe(duration.Seconds())
}

// RecordMetrics labels by route template so /cache/:key stays one series.
func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	labels := map[string]string{
		"path":   path,
		"method": c.Request.Method,
		"status": fmt.Sprintf("%d", c.Writer.Status()),
	}

	p.IncrementCounter("http_requests_total", labels)
	p.RecordDuration("api_request_duration_seconds", time.Since(start), labels)
}

func (p *PrometheusAdapter) RecordCacheOperation(operation, status string, duration time.Duration) {
	p.cacheOperationsTotal.WithLabelValues(operation, status).Inc()
	p.cacheOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusAdapter) SetCacheAlive(alive bool) {
	if alive {
		p.cacheAlive.Set(1)
		return
	}
	p.cacheAlive.Set(0)
}

var (
	_ ports.MetricsPort      = (*PrometheusAdapter)(nil)
	_ ports.CacheMetricsPort = (*PrometheusAdapter)(nil)
)
