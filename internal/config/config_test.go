package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DB_HOST", "DB_PORT", "DB_SSL_MODE", "DB_MAX_OPEN_CONNS",
		"DB_QUERY_TIMEOUT", "DB_APPLY_SCHEMA", "ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_USER", "registry")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "assets")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Duration(0), cfg.Database.QueryTimeout)
	assert.False(t, cfg.Database.ApplySchema)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Security.ShutdownTimeout)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DB_QUERY_TIMEOUT", "5s")
	t.Setenv("DB_APPLY_SCHEMA", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Database.ApplySchema)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DB_APPLY_SCHEMA", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Database.ApplySchema)
}

func TestLoadConfig_CollectsEveryProblem(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSL_MODE", "sometimes")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("PORT", "70000")

	_, err := LoadConfig()
	require.Error(t, err)

	for _, msg := range []string{
		"database user is required",
		"database password is required",
		"database name is required",
		"database SSL mode must be one of",
		"log level must be one of",
		"port must be between 1 and 65535",
	} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require",
	}}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.GetDatabaseDSN())
}
