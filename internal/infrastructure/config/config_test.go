package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepinter/prepinter/internal/core/origin"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "9090", cfg.OpsPort)
	assert.Equal(t, 4, cfg.Activity.Workers)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "3000", cfg.Shell.Port)
	assert.Equal(t, "frontend/dist", cfg.Shell.DistDir)
	assert.Equal(t, origin.DefaultAllowedOrigins, cfg.Origins())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"NODE_ENV":        "production",
		"PORT":            "8081",
		"ALLOWED_ORIGINS": " https://app.example.com , https://*.example.org,, ",
		"JWT_TTL":         "1h",
		"OTEL_ENABLED":    "true",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, []string{"https://app.example.com", "https://*.example.org"}, cfg.Origins())
}

func TestLoad_RejectsZeroWorkers(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"ACTIVITY_WORKERS": "0",
	}))
	require.Error(t, err)
}
