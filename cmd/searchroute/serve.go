package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/middleware"
	"github.com/vango-dev/searchroute/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port              int
		host              string
		canonicalRedirect bool
		trustedProxies    []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the routing service",
		Long: `Run the HTTP and WebSocket routing service.

Endpoints:
  GET  /search/...   route and widget state of a search URL
  POST /api/route    URL for a widget state
  GET  /ws           live sessions with server-side history
  GET  /metrics      Prometheus metrics
  GET  /healthz      health check

Examples:
  searchroute serve
  searchroute serve --port=8080 --canonical-redirect
  searchroute serve -c searchroute.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("canonical-redirect") {
				cfg.Server.CanonicalRedirect = canonicalRedirect
			}
			cfg.Server.TrustedProxies = append(cfg.Server.TrustedProxies, trustedProxies...)
			if err := cfg.Validate(); err != nil {
				return err
			}

			router, err := cfg.Router()
			if err != nil {
				return err
			}

			var metrics *middleware.Metrics
			if cfg.Metrics.Enabled {
				metrics = middleware.NewMetrics(middleware.WithNamespace(cfg.Metrics.Namespace))
			}

			srv := server.New(&server.Config{
				Address:           cfg.Addr(),
				Router:            router,
				CanonicalRedirect: cfg.Server.CanonicalRedirect,
				TrustedProxies:    cfg.Server.TrustedProxies,
				Metrics:           metrics,
				Tracing:           cfg.Tracing.Enabled,
				TracerName:        cfg.Tracing.TracerName,
				HistoryOptions:    cfg.HistoryOptions(),
				ShutdownTimeout:   cfg.ShutdownTimeout(),
			})

			out := cmd.OutOrStdout()
			success(out, "Serving search routes on %s", cfg.URL())
			info(out, "Search page:  %s/%s/", cfg.URL(), cfg.Routing.Anchor)
			if cfg.Path() != "" {
				info(out, "Config:       %s", cfg.Path())
			}
			if !cfg.Metrics.Enabled {
				warn(out, "Metrics disabled")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				return errors.Newf(errors.CategoryCLI, "server failed: %v", err).Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&canonicalRedirect, "canonical-redirect", false, "Redirect non-canonical search URLs")
	cmd.Flags().StringSliceVar(&trustedProxies, "trusted-proxy", nil, "Proxy IP or CIDR whose forwarded headers are trusted (repeatable)")

	return cmd
}
