package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentflow/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 48*time.Hour, cfg.Overdue.Threshold)
	assert.Equal(t, "18", cfg.PO.GSTPercent)
	assert.Len(t, cfg.PO.DefaultTerms, 3)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INDENTFLOW_DB_HOST", "db.internal")
	t.Setenv("INDENTFLOW_DB_PORT", "6432")
	t.Setenv("INDENTFLOW_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("INDENTFLOW_OVERDUE_THRESHOLD", "6h")
	t.Setenv("INDENTFLOW_PO_DEFAULT_TERMS", "Net 30|  |Ex works")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6432, cfg.DB.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6*time.Hour, cfg.Overdue.Threshold)
	assert.Equal(t, []string{"Net 30", "Ex works"}, cfg.PO.DefaultTerms)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)

	t.Setenv("INDENTFLOW_SERVER_PORT", ":7070")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	t.Setenv("INDENTFLOW_OVERDUE_POLL_INTERVAL_SECS", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}
