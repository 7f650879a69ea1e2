package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// viper держит глобальное состояние — тесты не параллелятся.

func TestLoad_RequiresJWTSecret(t *testing.T) {
	viper.Reset()

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt_secret")
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Address)
	require.Equal(t, "8080", cfg.Server.HTTPPort)
	require.Equal(t, "Europe/Paris", cfg.Server.Timezone)
	require.Equal(t, time.Hour, cfg.AccessTTL())
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	require.Equal(t, "Admin", cfg.Admin.Username)
	require.Equal(t, "admin@cesizen.fr", cfg.Admin.Email)
	require.Empty(t, cfg.Database.Driver)
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_ACCESS_TTL_SECONDS", "60")
	t.Setenv("SERVER_HTTP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, time.Minute, cfg.AccessTTL())
	require.Equal(t, "9090", cfg.Server.HTTPPort)
	require.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	viper.Reset()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_ACCESS_TTL_SECONDS", "-1")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "access_ttl_seconds")

	viper.Reset()
	t.Setenv("AUTH_ACCESS_TTL_SECONDS", "3600")
	t.Setenv("SERVER_TIMEZONE", "Not/AZone")

	_, err = Load()
	require.Error(t, err)
}
