// Package shared holds helpers used across package boundaries.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and price fixtures (CSV rows, weekday patterns) for the loader,
// service, handler and CLI tests.
package shared
