package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "hrims-stock", cfg.App.Name)
	assert.Equal(t, "CENTRAL", cfg.Workflow.DefaultWarehouseCode)
	assert.False(t, cfg.Workflow.RestockOnReject)
	assert.True(t, cfg.Alerts.LowStockEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DirectoryTTL)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("WORKFLOW_RESTOCK_ON_REJECT", "true")
	t.Setenv("ALERTS_LOW_STOCK_ENABLED", "false")
	t.Setenv("NOTIFY_WORKERS", "2")
	t.Setenv("REDIS_DIRECTORY_TTL", "30s")
	t.Setenv("SMTP_ADMIN_TO", "a@x.com, b@x.com")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_SEED_ITEMS", "item-x=Guantes,item-y")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Workflow.RestockOnReject)
	assert.False(t, cfg.Alerts.LowStockEnabled)
	assert.Equal(t, 2, cfg.Notify.Workers)
	assert.Equal(t, 30*time.Second, cfg.Redis.DirectoryTTL)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.SMTP.AdminTo)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, []string{"item-x=Guantes", "item-y"}, cfg.Storage.SeedItems)
	assert.Empty(t, cfg.Storage.SeedWarehouses)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "hrims", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/hrims?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
