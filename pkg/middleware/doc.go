// Package middleware provides the HTTP middleware used by the searchroute
// server.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware
//   - Structured request logging
//
// Every middleware has the chi signature func(http.Handler) http.Handler:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestLogger(logger))
//	r.Use(metrics.Middleware)
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("shop")))
//
// # Prometheus Metrics
//
// Metrics are owned by a *Metrics value so that tests and embedded servers
// can use their own registry:
//
//	metrics := middleware.NewMetrics(
//	    middleware.WithNamespace("shop"),
//	    middleware.WithRegistry(reg),
//	)
//	metrics.RecordURLBuild()
//
// Request metrics are labelled by chi route pattern, never by raw path, so
// search URLs do not create a series per query.
//
// A nil *Metrics is valid and records nothing.
package middleware
