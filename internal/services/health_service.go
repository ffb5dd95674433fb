package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	repoURL   string
	buildTime string
	positions *PositionService
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

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, repoURL, buildTime string, positions *PositionService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		repoURL:   repoURL,
		buildTime: buildTime,
		positions: positions,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck handles the full health report
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
		},
		Services: map[string]interface{}{
			"positions": hs.checkDataHealth(),
		},
	}
}

// ReadinessCheck reports whether the service can answer data queries.
// Readiness requires a loaded snapshot; liveness does not.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := "ready"
	if hs.positions == nil || !hs.positions.Loaded() {
		status = "not_ready"
	}
	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"positions": hs.checkDataHealth(),
		},
	}
}

// LivenessCheck reports that the process is alive.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// Version returns build information.
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"repo_url":   hs.repoURL,
		"build_time": hs.buildTime,
		"go_version": runtime.Version(),
	}
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.positions == nil {
		return ServiceHealth{Status: "unknown", Message: "position service not configured"}
	}
	if !hs.positions.Loaded() {
		return ServiceHealth{Status: "degraded", Message: "positioning data not loaded"}
	}
	return ServiceHealth{
		Status:  "healthy",
		Message: fmt.Sprintf("%d records loaded", hs.positions.Count()),
	}
}
