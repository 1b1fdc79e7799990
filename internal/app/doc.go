// Package app wires the kscompare HTTP server together and manages its
// lifecycle.
//
// NewApplication loads the configuration, initializes the process logger and
// OpenTelemetry, builds the comparison and health services, mounts the
// handlers of internal/transport/http on a chi router and creates the
// http.Server:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    slog.Error("init failed", slog.String("error", err.Error()))
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down within
// the configured shutdown timeout and flushes the telemetry providers.
//
// Middleware order: RequestID, RealIP, OpenTelemetry, StructuredLogger,
// Recoverer, SecurityHeaders, CORS, RateLimiter, then a per-request timeout
// on /api. /metrics is served outside the group.
package app
