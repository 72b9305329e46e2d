package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "night_schedule.db", cfg.Database.Path)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, 14, cfg.Auth.BcryptCost)
	assert.Equal(t, "Night Shifts", cfg.Calendar.Name)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db/nights")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://*.vercel.app ,")
	t.Setenv("CALENDAR_TIMEZONE", "Europe/London")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://user:pass@db/nights", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://*.vercel.app"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Europe/London", cfg.Calendar.Timezone)
}
