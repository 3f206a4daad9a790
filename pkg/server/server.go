package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/searchroute/pkg/middleware"
	"github.com/vango-dev/searchroute/pkg/routing"
)

// Server is the HTTP/WebSocket server for search routing.
type Server struct {
	config   *Config
	router   *routing.Router
	metrics  *middleware.Metrics
	logger   *slog.Logger
	handler  http.Handler
	upgrader websocket.Upgrader

	// Trusted proxy matcher for forwarded headers
	trustedProxies *proxyMatcher

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr net.Addr
	sessions   map[*session]struct{}
}

// New creates a new Server with the given configuration.
func New(config *Config) *Server {
	config = config.withDefaults()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	router := config.Router
	if router == nil {
		router = routing.New()
	}

	s := &Server{
		config:  config,
		router:  router,
		metrics: config.Metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		trustedProxies: newProxyMatcher(config.TrustedProxies, logger),
		sessions:       make(map[*session]struct{}),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.config.Tracing {
		r.Use(middleware.OpenTelemetry(middleware.WithTracerName(s.config.TracerName)))
	}

	anchor := "/" + s.router.Anchor().Name()
	r.Get(anchor, s.handleSearch)
	r.Get(anchor+"/*", s.handleSearch)
	r.Post("/api/route", s.handleRoute)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)

	if s.metrics != nil {
		metricsHandler := s.config.MetricsHandler
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, newRequestError("E100"))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Router returns the URL router.
func (s *Server) Router() *routing.Router {
	return s.router
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Addr returns the listening address once the server is running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Run listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.listenAddr = ln.Addr()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		// ctx is already done; the shutdown gets its own deadline.
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown closes live sessions and stops the HTTP server, waiting up to
// ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	httpServer := s.httpServer
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close(websocket.CloseGoingAway, "server shutting down")
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.metrics.RecordWebSocketOpen()
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	_, ok := s.sessions[sess]
	delete(s.sessions, sess)
	s.mu.Unlock()
	if ok {
		s.metrics.RecordWebSocketClose()
	}
}

// SessionCount returns the number of open live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
