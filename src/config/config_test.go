package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("RESERVATIONS_PAGE_SIZE", "")
	t.Setenv("RECONCILE_INTERVAL", "")
	t.Setenv("MAINTENANCE_MODE", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "sql", cfg.LedgerBackend)
	assert.Equal(t, DEFAULT_PAGE_SIZE, cfg.PageSize)
	assert.Equal(t, DEFAULT_RECONCILE_INTERVAL, cfg.ReconcileInterval)
	assert.False(t, cfg.MaintenanceMode)
	assert.Contains(t, cfg.DSN, "sslmode=disable")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("LEDGER_BACKEND", "redis")
	t.Setenv("RESERVATIONS_PAGE_SIZE", "5")
	t.Setenv("RECONCILE_INTERVAL", "30s")
	t.Setenv("MAINTENANCE_MODE", "true")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db", cfg.DSN)
	assert.Equal(t, "redis", cfg.LedgerBackend)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.ReconcileInterval)
	assert.True(t, cfg.MaintenanceMode)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("RESERVATIONS_PAGE_SIZE", "-3")
	t.Setenv("RECONCILE_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, DEFAULT_PAGE_SIZE, cfg.PageSize)
	assert.Equal(t, DEFAULT_RECONCILE_INTERVAL, cfg.ReconcileInterval)
}
