package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("RESERVATIONS_IDENTITY_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.HTTPPort)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, "file:reservations.db", cfg.SQLiteDSN)
	require.Equal(t, 256, cfg.IdentityCacheSize)
}

func TestLoadRequiresIdentitySecret(t *testing.T) {
	t.Setenv("RESERVATIONS_IDENTITY_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPostgresDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RESERVATIONS_DB_DRIVER", "postgres")
	t.Setenv("RESERVATIONS_POSTGRES_DSN", "postgres://localhost:5432/reservations")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
}

func TestLoadPostgresDriverWithoutDSN(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RESERVATIONS_DB_DRIVER", "postgres")

	_, err := Load()
	require.ErrorContains(t, err, "RESERVATIONS_POSTGRES_DSN")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RESERVATIONS_DB_DRIVER", "oracle")

	_, err := Load()
	require.ErrorContains(t, err, "unsupported")
}

func TestLoadRejectsOutOfRangePort(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RESERVATIONS_HTTP_PORT", "70000")

	_, err := Load()
	require.ErrorContains(t, err, "out of range")
}
