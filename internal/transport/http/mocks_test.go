package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kscompare/internal/files"
	"kscompare/internal/services"
)

// MockComparisonService is a mock implementation of ComparisonServiceInterface
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) ListDatasets(ctx context.Context) ([]files.FileInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]files.FileInfo), args.Error(1)
}

func (m *MockComparisonService) Describe(ctx context.Context, name string, bins int) (*services.DatasetSummary, error) {
	args := m.Called(name, bins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DatasetSummary), args.Error(1)
}

func (m *MockComparisonService) Compare(ctx context.Context, req services.CompareRequest) (*services.Comparison, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Comparison), args.Error(1)
}

func (m *MockComparisonService) ScanWeekdays(ctx context.Context, req services.ScanRequest) (*services.WeekdayScan, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WeekdayScan), args.Error(1)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
