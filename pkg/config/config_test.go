package config_test

import (
	"testing"
	"time"

	"github.com/jhoicas/gestion-pyme/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Security.MassDeletionWindow)
	assert.Equal(t, 3, cfg.Security.MassDeletionThreshold)
	assert.False(t, cfg.Ledger.ReverseStockOnCancel)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SECURITY_MASS_DELETION_WINDOW", "5m")
	t.Setenv("SECURITY_MASS_DELETION_THRESHOLD", "7")
	t.Setenv("LEDGER_REVERSE_STOCK_ON_CANCEL", "true")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Security.MassDeletionWindow)
	assert.Equal(t, 7, cfg.Security.MassDeletionThreshold)
	assert.True(t, cfg.Ledger.ReverseStockOnCancel)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestMigrateURL(t *testing.T) {
	db := config.DBConfig{DatabaseURL: "postgres://u:p@localhost:5432/db?sslmode=disable"}
	assert.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable", db.MigrateURL())
}
