package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/searchroute/pkg/history"
	"github.com/vango-dev/searchroute/pkg/middleware"
	"github.com/vango-dev/searchroute/pkg/routing"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: "localhost:3000".
	Address string

	// Router builds and parses search URLs.
	// Default: routing.New().
	Router *routing.Router

	// CanonicalRedirect answers search URLs that are not in canonical
	// form with a 301 to the canonical URL.
	CanonicalRedirect bool

	// TrustedProxies lists proxy IPs or CIDRs whose Forwarded and
	// X-Forwarded-* headers are believed.
	TrustedProxies []string

	// Logger is the server logger.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics records Prometheus metrics. Nil disables metrics and the
	// /metrics endpoint.
	Metrics *middleware.Metrics

	// MetricsHandler serves /metrics. Default: promhttp.Handler().
	MetricsHandler http.Handler

	// Tracing wraps every request in an OpenTelemetry span.
	Tracing bool

	// TracerName is the name of the tracer used when Tracing is set.
	TracerName string

	// HistoryOptions configure the history of each live session.
	HistoryOptions []history.Option

	// WebSocket settings

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins.
	CheckOrigin func(r *http.Request) bool

	// PingInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	PingInterval time.Duration

	// Timeouts

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout limits the time to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60 seconds.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:3000",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MaxMessageSize:    64 * 1024, // 64KB
		CheckOrigin:       func(r *http.Request) bool { return true },
		PingInterval:      30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	return &out
}
