package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
data_dir_path = "./data"
seed_sample_blogs = true
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/novalift/service.log"
data_dir_path = "/var/lib/novalift/data"
gemini_model = "gemini-2.0-flash"
redis_host = "localhost"
redis_port = "6379"
contact_rate_limit_allowed_per_min = 20
generate_rate_limit_allowed_per_min = 3
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
honeycomb_tracing_enabled = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0644))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "./data", cfg.DataDirPath)
	assert.True(t, cfg.SeedSampleBlogs)
	assert.False(t, cfg.HoneycombTracingEnabled)

	// defaults kick in for values not present in the file
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 10, cfg.ContactRateLimitAllowedPerMin)
	assert.Equal(t, 5, cfg.GenerateRateLimitAllowedPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "/var/lib/novalift/data", cfg.DataDirPath)
	assert.Equal(t, "/var/log/novalift/service.log", cfg.LogsPath)
	assert.Equal(t, 20, cfg.ContactRateLimitAllowedPerMin)
	assert.Equal(t, 3, cfg.GenerateRateLimitAllowedPerMin)
	assert.True(t, cfg.HoneycombTracingEnabled)
	assert.False(t, cfg.SeedSampleBlogs)
}

func TestLoad_UnknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("development", "/invalid/path/config.toml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
