// Package services implements the application layer between the HTTP
// handlers and the statistics packages.
//
// ComparisonService resolves dataset names inside the data directory,
// prepares their observations through a DatasetCache and runs two-sample
// KS comparisons:
//
//	svc, err := services.NewComparisonService(cfg.Paths, cfg.Analysis, metrics, logger)
//	if err != nil {
//	    return err
//	}
//	cmp, err := svc.Compare(ctx, services.CompareRequest{
//	    Dataset: "spy.csv",
//	    Years:   "2015-2018",
//	    Days:    []string{"Monday"},
//	})
//
// Failures wrap the sentinel errors of this package (ErrDatasetNotFound,
// ErrInvalidInput, ErrEmptySubset and friends), so callers can map them
// with errors.Is.
//
// Each comparison runs in its own OpenTelemetry span and records the
// comparison metrics defined in internal/infrastructure.
//
// HealthService backs the health, readiness, liveness and version
// endpoints.
package services
