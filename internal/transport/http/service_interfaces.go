package http

import (
	"context"

	"kscompare/internal/files"
	"kscompare/internal/services"
)

// ComparisonServiceInterface defines the dataset and comparison operations
// the handlers depend on.
type ComparisonServiceInterface interface {
	ListDatasets(ctx context.Context) ([]files.FileInfo, error)
	Describe(ctx context.Context, name string, bins int) (*services.DatasetSummary, error)
	Compare(ctx context.Context, req services.CompareRequest) (*services.Comparison, error)
	ScanWeekdays(ctx context.Context, req services.ScanRequest) (*services.WeekdayScan, error)
}

// HealthServiceInterface defines the health operations
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
