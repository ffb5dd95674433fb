package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	positions := newTestService(&stubFetcher{text: testCSV})
	hs := NewHealthService("v1.2.3", "https://example.com/repo", "2024-01-01T00:00:00Z", positions, slog.Default())

	status := hs.HealthCheck(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Services, "positions")
}

func TestReadinessCheck(t *testing.T) {
	positions := newTestService(&stubFetcher{text: testCSV})
	hs := NewHealthService("v1.2.3", "", "", positions, slog.Default())

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	_, err := positions.Load(context.Background())
	require.NoError(t, err)

	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)

	svcHealth := status.Services["positions"].(ServiceHealth)
	assert.Equal(t, "healthy", svcHealth.Status)
	assert.Equal(t, "3 records loaded", svcHealth.Message)
}

func TestLivenessCheck(t *testing.T) {
	hs := NewHealthService("v1.2.3", "", "", nil, slog.Default())

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
}

func TestVersion(t *testing.T) {
	hs := NewHealthService("v1.2.3", "https://example.com/repo", "2024-01-01T00:00:00Z", nil, slog.Default())

	info := hs.Version()
	assert.Equal(t, "v1.2.3", info["version"])
	assert.Equal(t, "https://example.com/repo", info["repo_url"])
}
