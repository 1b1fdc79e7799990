package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"kscompare/internal/config"
	"kscompare/internal/infrastructure"
	"kscompare/internal/validation"
	"kscompare/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     config.PathsConfig
	validator *validation.FileValidator
	cache     interface{ CacheStats() CacheStats }
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. comparisons may be nil, in
// which case the cache is not reported.
func NewHealthService(version, buildTime string, paths config.PathsConfig, comparisons *ComparisonService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	hs := &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		validator: validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
	if comparisons != nil {
		hs.cache = comparisons
	}
	return hs
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready when the data directory can be read.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	data := hs.checkDataHealth()
	status.Services["data"] = data
	if hs.cache != nil {
		status.Services["dataset_cache"] = hs.cache.CacheStats()
	}

	if data.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "service not ready", slog.String("reason", data.Message))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information. The commit and API version come from
// the binary; version and build time are the values the service was built
// with.
func (hs *HealthService) Version() map[string]interface{} {
	build := contracts.GetVersionInfo()
	result := map[string]interface{}{
		"version":      hs.version,
		"api_version":  build.APIVersion,
		"git_commit":   build.GitCommit,
		"go_version":   build.GoVersion,
		"os":           build.OS,
		"arch":         build.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" && hs.buildTime != "unknown" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	count, err := hs.validator.ValidateDataDirectory(hs.paths.DataDir)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: err.Error(),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d datasets available", count),
	}
}
