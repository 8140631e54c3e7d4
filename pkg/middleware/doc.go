// Package middleware provides HTTP middleware for the page host and the
// reference backend.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for every request and stores it in the
// request context, so spans started by frame.Begin and Run.Display nest
// under it:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// Prometheus counts requests and observes their duration, labelled by the
// chi route pattern so label cardinality stays bounded:
//   - dhframe_http_requests_total
//   - dhframe_http_request_duration_seconds
//   - dhframe_websocket_errors_total (RecordWebSocketError)
//
//	m := middleware.NewHTTPMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
package middleware
