package observability

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/middleware"
)

// Metrics is an explicitly constructed, explicitly passed metrics
// surface; there is no process-wide registry hiding in here. Wire it
// into a server with Middleware and expose it with Handler.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewMetrics builds a Metrics with its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "nodeserver"
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests dispatched, by method and status.",
	}, []string{"method", "status"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Dispatch latency, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	m.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being dispatched.",
	})

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.inFlight)
	return m
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware returns a middleware recording count, latency and
// in-flight gauge for every dispatch that passes through it.
func (m *Metrics) Middleware() middleware.Func {
	return func(req *http.Request, res *http.Response, next middleware.Next) {
		start := time.Now()
		m.inFlight.Inc()

		next()

		m.inFlight.Dec()
		m.requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(req.Method, strconv.Itoa(res.StatusCode())).Inc()
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() nethttp.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
