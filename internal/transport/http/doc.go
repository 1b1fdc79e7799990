// Package http implements the HTTP handlers of the kscompare API.
//
// Handlers are thin: they decode and validate the request, call a service
// through an interface and render either a success envelope
//
//	{"status": "success", "data": ...}
//
// or an RFC 7807 problem through internal/errors. Service sentinel errors
// are mapped to API errors in mapServiceError.
//
// Routes, relative to /api:
//
//	GET  /datasets           list datasets
//	GET  /datasets/{name}    dataset summary, ?bins=N
//	POST /compare            subset versus baseline KS test
//	POST /compare/weekdays   every weekday versus the baseline
//	GET  /health             health, /health/ready and /health/live
//	GET  /version            build information
package http
