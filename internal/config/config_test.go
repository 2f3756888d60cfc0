package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("RATE_LIMIT_GLOBAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 2*time.Second, cfg.RateLimitGlobal)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("RATE_LIMIT_COMMENT", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_COMMENT")

	t.Setenv("RATE_LIMIT_COMMENT", "1s")
	t.Setenv("JWT_TTL_MINUTES", "-5")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_TTL_MINUTES")
}
