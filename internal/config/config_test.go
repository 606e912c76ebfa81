package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 9000
environment = "development"
log_level = "trace"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fittrack"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
session_ttl = "2h"
allowed_origins = ["http://localhost:5173"]

[production]
host = "0.0.0.0"
port = 8080
environment = "production"
timezone = "Europe/Belgrade"
log_level = "info"
postgres_user = "fittrack"
auth_rate_limit_allowed_per_min = 5
trusted_proxies = ["172.16.0.0/12", "10.1.2.3"]
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	dev, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, dev.Port)
	assert.Equal(t, "fittrack", dev.PostgresDBName)
	assert.Equal(t, "postgres", dev.PostgresUser)
	assert.Equal(t, 2*time.Hour, dev.SessionTTL.Duration)
	assert.Equal(t, 15, dev.AuthRateLimitAllowedPerMin)
	assert.Equal(t, []string{"http://localhost:5173"}, dev.AllowedOrigins)
	assert.Empty(t, dev.TrustedProxies)

	prod, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, "fittrack", prod.PostgresUser)
	assert.Equal(t, 5, prod.AuthRateLimitAllowedPerMin)
	assert.Equal(t, 7*24*time.Hour, prod.SessionTTL.Duration)
	assert.Equal(t, "Europe/Belgrade", prod.Timezone)
	assert.Equal(t, []string{"172.16.0.0/12", "10.1.2.3"}, prod.TrustedProxies)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Mars/Olympus_Mons"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	path := writeTestConfig(t)

	_, err := Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = (&Toml{}).Get("prod")
	assert.EqualError(t, err, "no config section for env: prod")
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("FITTRACK_REDIS_PASS", "redis-pass")
	t.Setenv("HONEYCOMB_ENABLED", "true")

	secrets, err := LoadSecrets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "redis-pass", secrets.RedisPassword)
	assert.True(t, secrets.HoneycombEnabled)
}
