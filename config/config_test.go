package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lingora_test")
	t.Setenv("INTERNAL_API_TOKEN", "internal-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "https://lingora.app", cfg.Server.BaseURL)
	assert.Equal(t, []string{"https://lingora.app", "https://www.lingora.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 600, cfg.Cache.MentorTTLSeconds)
	assert.Equal(t, 14, cfg.Scheduling.DefaultHorizonDays)
	assert.Equal(t, 21, cfg.Scheduling.MaxHorizonDays)
	assert.Equal(t, 24, cfg.Session.SessionTTLHours)
	assert.Equal(t, "lingora-api", cfg.Session.JWTIssuer)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("INTERNAL_API_TOKEN", "internal-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingInternalToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lingora_test")
	t.Setenv("INTERNAL_API_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTERNAL_API_TOKEN")
}

func TestLoad_ParsesAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RejectsInvertedHorizon(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCHEDULE_HORIZON_DAYS", "30")
	t.Setenv("SCHEDULE_MAX_HORIZON_DAYS", "14")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULE_MAX_HORIZON_DAYS")
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{AppEnv: "development"}}
	assert.True(t, cfg.IsDevelopment())

	cfg = &Config{Server: ServerConfig{AppEnv: "production", GinMode: "debug"}}
	assert.True(t, cfg.IsDevelopment())

	cfg = &Config{Server: ServerConfig{AppEnv: "production", GinMode: "release"}}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
