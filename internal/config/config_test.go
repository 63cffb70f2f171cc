package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PG_ENABLED", "")
	t.Setenv("INTAKE_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.PostgreSQL.Enabled)
	assert.Equal(t, 0.8, cfg.Pipeline.AutoConfirmThreshold)
	assert.Equal(t, 400*time.Millisecond, cfg.Session.Debounce())
	assert.Equal(t, time.Hour, cfg.Session.TTL())
	assert.Equal(t, time.UTC, cfg.Pipeline.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_BASE", "http://localhost:9999/v1/")
	t.Setenv("PG_ENABLED", "true")
	t.Setenv("AUTO_CONFIRM_THRESHOLD", "0.9")
	t.Setenv("DEBOUNCE_MS", "250")
	t.Setenv("INTAKE_TIMEZONE", "America/Phoenix")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "http://localhost:9999/v1", cfg.OpenAI.APIBase)
	assert.True(t, cfg.PostgreSQL.Enabled)
	assert.Equal(t, 0.9, cfg.Pipeline.AutoConfirmThreshold)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.Debounce())
	assert.Equal(t, "America/Phoenix", cfg.Pipeline.Location().String())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DEBOUNCE_MS", "soon")
	t.Setenv("PG_ENABLED", "maybe")
	t.Setenv("INTAKE_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Session.DebounceMs)
	assert.False(t, cfg.PostgreSQL.Enabled)
}

func TestLoad_RejectsBadThreshold(t *testing.T) {
	t.Setenv("AUTO_CONFIRM_THRESHOLD", "1.5")
	t.Setenv("INTAKE_TIMEZONE", "UTC")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTO_CONFIRM_THRESHOLD")
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("INTAKE_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.ErrorContains(t, err, "INTAKE_TIMEZONE")
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "intake", Password: "pw", Database: "calls", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=intake password=pw dbname=calls sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetPostgreSQLDSN())
}
