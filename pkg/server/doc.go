// Package server serves search routing over HTTP and WebSocket.
//
// The server answers three kinds of clients:
//
//   - Browsers loading a search page: GET /search/... returns the route
//     state and widget state encoded in the URL, or redirects to the
//     canonical URL when CanonicalRedirect is set.
//   - Front ends that need a URL for a widget state: POST /api/route.
//   - Live sessions: /ws keeps a per-connection history, so rapid
//     refinements collapse into one entry and "back" works server side.
//
// Operational endpoints are /healthz and, when metrics are enabled,
// /metrics.
//
// # Usage
//
//	srv := server.New(&server.Config{
//	    Address:           ":8080",
//	    Router:            routing.New(routing.WithWindowTitle("Shop")),
//	    CanonicalRedirect: true,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run returns after ctx is cancelled and in-flight requests finish.
//
// # WebSocket Protocol
//
// Messages are JSON objects with a "type" field. The client sends:
//
//	{"type": "navigate", "href": "https://shop.example/search/TV/?page=2"}
//	{"type": "state", "href": "...", "uiState": {"query": "oled"}}
//	{"type": "back"}
//
// The server replies with "route" messages carrying url, routeState,
// uiState and title, with "history" messages when a debounced history
// entry is committed, and with "error" messages carrying a code.
package server
