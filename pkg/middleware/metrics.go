package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "searchroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "searchroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics of a server.
//
// Metrics collected:
//   - searchroute_requests_total: requests by route, method and status
//   - searchroute_request_duration_seconds: request duration by route
//   - searchroute_request_errors_total: failed requests by route and error type
//   - searchroute_url_builds_total: URLs built from route state
//   - searchroute_url_parses_total: URLs parsed into route state
//   - searchroute_canonical_redirects_total: redirects to the canonical URL
//   - searchroute_history_writes_total: committed history entries by mode
//   - searchroute_websocket_connections: open live sessions
//   - searchroute_websocket_messages_total: received messages by type
//   - searchroute_websocket_errors_total: WebSocket errors by type
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	urlBuilds       prometheus.Counter
	urlParses       prometheus.Counter
	redirects       prometheus.Counter
	historyWrites   *prometheus.CounterVec
	wsConnections   prometheus.Gauge
	wsMessages      *prometheus.CounterVec
	wsErrors        *prometheus.CounterVec
}

// NewMetrics registers the metrics with the configured registry.
// It panics if they are already registered there.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of HTTP requests that ended in an error status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		urlBuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "url_builds_total",
			Help:        "Total number of search URLs built from route state",
			ConstLabels: config.ConstLabels,
		}),

		urlParses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "url_parses_total",
			Help:        "Total number of search URLs parsed into route state",
			ConstLabels: config.ConstLabels,
		}),

		redirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "canonical_redirects_total",
			Help:        "Total number of redirects to a canonical search URL",
			ConstLabels: config.ConstLabels,
		}),

		historyWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "history_writes_total",
			Help:        "Total number of committed history entries",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		wsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_connections",
			Help:        "Number of open WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_messages_total",
			Help:        "Total WebSocket messages received by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Middleware records request count, duration and error status.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(metrics.Middleware)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)

		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		if status >= 400 {
			m.requestErrors.WithLabelValues(route, categorizeStatus(status)).Inc()
		}
	})
}

// routePattern returns the matched chi pattern, which keeps label
// cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func categorizeStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status >= 500:
		return "internal"
	default:
		return "bad_request"
	}
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	var netErr net.Error
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return "closed"
	case websocket.IsUnexpectedCloseError(err):
		return "unexpected_close"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case strings.Contains(err.Error(), "json"), strings.Contains(err.Error(), "invalid character"):
		return "decode"
	default:
		return "internal"
	}
}

// RecordURLBuild records a search URL built from route state.
func (m *Metrics) RecordURLBuild() {
	if m != nil {
		m.urlBuilds.Inc()
	}
}

// RecordURLParse records a search URL parsed into route state.
func (m *Metrics) RecordURLParse() {
	if m != nil {
		m.urlParses.Inc()
	}
}

// RecordRedirect records a canonical redirect.
func (m *Metrics) RecordRedirect() {
	if m != nil {
		m.redirects.Inc()
	}
}

// RecordHistoryWrite records a committed history entry.
func (m *Metrics) RecordHistoryWrite(mode string) {
	if m != nil {
		m.historyWrites.WithLabelValues(mode).Inc()
	}
}

// RecordWebSocketOpen records a new live session.
func (m *Metrics) RecordWebSocketOpen() {
	if m != nil {
		m.wsConnections.Inc()
	}
}

// RecordWebSocketClose records the end of a live session.
func (m *Metrics) RecordWebSocketClose() {
	if m != nil {
		m.wsConnections.Dec()
	}
}

// RecordWebSocketMessage records a received message.
func (m *Metrics) RecordWebSocketMessage(msgType string) {
	if m != nil {
		m.wsMessages.WithLabelValues(msgType).Inc()
	}
}

// RecordWebSocketError records a WebSocket error.
func (m *Metrics) RecordWebSocketError(err error) {
	if m != nil && err != nil {
		m.wsErrors.WithLabelValues(categorizeError(err)).Inc()
	}
}
