package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inEmptyDir runs Load from a directory without config.toml
func inEmptyDir(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		inEmptyDir(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "tilestock", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "tilestock", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 200*time.Millisecond, cfg.Log.SlowQuery)
		assert.Equal(t, "clamp", cfg.Inventory.NegativeStock)
		assert.True(t, cfg.Inventory.EnforceReservedWithinQuantity)
		assert.True(t, decimal.RequireFromString("0.10").Equal(cfg.Trade.SalesTaxRate))
		assert.Equal(t, 24*time.Hour, cfg.Trade.IdempotencyTTL)
		assert.Equal(t, int64(5<<20), cfg.Storage.MaxImageSize)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_APP_NAME", "test-app")
		t.Setenv("ERP_APP_ENV", "testing")
		t.Setenv("ERP_APP_PORT", "9000")
		t.Setenv("ERP_DATABASE_HOST", "testdb.local")
		t.Setenv("ERP_DATABASE_PORT", "5433")
		t.Setenv("ERP_DATABASE_USER", "testuser")
		t.Setenv("ERP_DATABASE_PASSWORD", "testpass")
		t.Setenv("ERP_DATABASE_DBNAME", "testdb")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ERP_INVENTORY_NEGATIVE_STOCK", "reject")
		t.Setenv("ERP_INVENTORY_ENFORCE_RESERVED_WITHIN_QUANTITY", "false")
		t.Setenv("ERP_TRADE_SALES_TAX_RATE", "0.2")
		t.Setenv("ERP_TRADE_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "reject", cfg.Inventory.NegativeStock)
		assert.False(t, cfg.Inventory.EnforceReservedWithinQuantity)
		assert.True(t, decimal.RequireFromString("0.2").Equal(cfg.Trade.SalesTaxRate))
		assert.Equal(t, time.Hour, cfg.Trade.IdempotencyTTL)
	})

	t.Run("reads config.toml", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[app]
port = "9090"

[storage]
enabled = true
bucket = "tiles"
access_key_id = "key"
secret_access_key = "secret"
use_path_style = true
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
		chdir(t, dir)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.True(t, cfg.Storage.Enabled)
		assert.Equal(t, "tiles", cfg.Storage.Bucket)
		assert.True(t, cfg.Storage.UsePathStyle)
	})

	t.Run("keeps an explicit zero sales tax rate", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_TRADE_SALES_TAX_RATE", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Trade.SalesTaxRate.IsZero(), "got %s", cfg.Trade.SalesTaxRate)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown negative stock mode", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_INVENTORY_NEGATIVE_STOCK", "ignore")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inventory.negative_stock")
	})

	t.Run("rejects malformed tax rate", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_TRADE_SALES_TAX_RATE", "ten percent")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trade.sales_tax_rate")
	})

	t.Run("rejects tax rate of one or more", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_TRADE_SALES_TAX_RATE", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be in [0, 1)")
	})

	t.Run("storage needs credentials when enabled", func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key_id")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		inEmptyDir(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
	}

	t.Run("valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ERP_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("rejects sslmode disable in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ERP_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode cannot be 'disable'")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ERP_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
