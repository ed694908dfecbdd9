package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Prom struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// Uploads
	UploadBytes  prometheus.Counter
	UploadsTotal *prometheus.CounterVec

	// Designs cache
	CacheResults *prometheus.CounterVec
}

// NewProm registers the service collectors on a private registry.
func NewProm() *Prom {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	p := &Prom{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "designhub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "designhub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "designhub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "designhub",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "designhub",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		UploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "designhub",
				Subsystem: "uploads",
				Name:      "bytes_total",
				Help:      "Bytes accepted by the upload endpoint.",
			},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "designhub",
				Subsystem: "uploads",
				Name:      "total",
				Help:      "Upload attempts by result.",
			},
			[]string{"result"}, // result=stored|no_file|too_large|error
		),
		CacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "designhub",
				Subsystem: "cache",
				Name:      "results_total",
				Help:      "Designs cache lookups by result.",
			},
			[]string{"result"}, // result=hit|miss|error
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.DbQueryDuration, p.DbErrorsTotal, p.UploadBytes, p.UploadsTotal, p.CacheResults)

	return p
}

func (p *Prom) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the exposition format for GET /metrics.
func (p *Prom) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

// GinHandleMiddleware counts and times requests by route template.
func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		method, route := ctx.Request.Method, routeLabel(ctx)
		inflight := p.InFlight.WithLabelValues(method, route)
		inflight.Inc()

		start := time.Now()
		defer func() {
			inflight.Dec()
			labels := []string{method, route, strconv.Itoa(ctx.Writer.Status())}
			p.RequestsTotal.WithLabelValues(labels...).Inc()
			p.RequestsDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		}()

		ctx.Next()
	}
}

// unmatched requests share one label so scanners cannot grow cardinality
func routeLabel(ctx *gin.Context) string {
	if r := ctx.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
