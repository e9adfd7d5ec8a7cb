package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

var allVars = []string{
	"LOG_LEVEL", "MCP_HOST", "PORT", "JOBS_API_URL", "JOBS_SOURCE_MODE",
	"JOBS_BACKEND_TIMEOUT", "EXPORT_DIR", "REDIS_URL", "SESSION_TTL",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:5000/api", cfg.Jobs.APIURL)
	assert.Equal(t, domain.SingleSource, cfg.Jobs.Mode)
	assert.Equal(t, 90*time.Second, cfg.Jobs.Timeout)
	assert.Equal(t, "exports", cfg.ExportDir)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Neo4jEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("JOBS_API_URL", "https://jobs.internal/api")
	t.Setenv("JOBS_SOURCE_MODE", "MULTI")
	t.Setenv("JOBS_BACKEND_TIMEOUT", "30s")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://jobs.internal/api", cfg.Jobs.APIURL)
	assert.Equal(t, domain.MultiSource, cfg.Jobs.Mode)
	assert.Equal(t, 30*time.Second, cfg.Jobs.Timeout)
	assert.Equal(t, time.Hour, cfg.Redis.SessionTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Neo4jEnabled())
}

func TestFromEnv_Neo4jURIWithoutCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	_, err := FromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_USERNAME")
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")
}

func TestFromEnv_InvalidValuesAreAggregated(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBS_SOURCE_MODE", "both")
	t.Setenv("JOBS_BACKEND_TIMEOUT", "soon")

	_, err := FromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBS_SOURCE_MODE")
	assert.Contains(t, err.Error(), "JOBS_BACKEND_TIMEOUT")
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}
