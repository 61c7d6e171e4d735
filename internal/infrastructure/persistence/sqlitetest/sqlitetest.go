// Package sqlitetest opens throwaway SQLite databases with the application schema
// for repository and service tests.
package sqlitetest

import (
	"testing"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/crm"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted aggregate and entity
func Models() []any {
	return []any{
		&catalog.Product{},
		&partner.Customer{},
		&partner.Supplier{},
		&partner.Warehouse{},
		&inventory.InventoryRecord{},
		&trade.SalesOrder{},
		&trade.SalesOrderItem{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&crm.Lead{},
	}
}

// Open returns an in-memory database with all tables migrated. A single
// connection is used so every query sees the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}
