package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/infrastructure/persistence/sqlitetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormWarehouseRepository_FindByCode(t *testing.T) {
	t.Run("upper-cases the code", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(gormDB)

		warehouseID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "is_active"}).
			AddRow(warehouseID, "WH001", "Main Warehouse", true)

		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("WH001", 1).
			WillReturnRows(rows)

		warehouse, err := repo.FindByCode(context.Background(), "wh001")

		require.NoError(t, err)
		assert.Equal(t, warehouseID, warehouse.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for an unknown code", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		warehouse, err := repo.FindByCode(context.Background(), "nope")

		assert.Nil(t, warehouse)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormWarehouseRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWarehouseRepository(sqlitetest.Open(t))

	main := newTestWarehouse(t, "MAIN")
	require.NoError(t, repo.Save(ctx, main))

	closed := newTestWarehouse(t, "OLD")
	require.NoError(t, closed.Update("Old depot", "", false))
	require.NoError(t, repo.Save(ctx, closed))

	loaded, err := repo.FindByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive, "inactive flag must survive the column default")

	filter := shared.DefaultFilter().Where("is_active", true)
	warehouses, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "MAIN", warehouses[0].Code)

	found, err := repo.ExistsByCode(ctx, "main")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGormCustomerRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(sqlitetest.Open(t))

	for _, info := range []partner.ContactInfo{
		{Name: "Aigerim Builders", Email: "office@aigerim.kz"},
		{Name: "Stone House", Email: "hello@stonehouse.kz"},
	} {
		customer, err := partner.NewCustomer(info)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, customer))
	}

	filter := shared.DefaultFilter()
	filter.Search = "STONE"
	customers, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Stone House", customers[0].Name)

	customer := customers[0]
	require.NoError(t, customer.Update(partner.ContactInfo{Name: "Stone House LLP", Email: "hello@stonehouse.kz"}))
	require.NoError(t, repo.Save(ctx, &customer))

	loaded, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stone House LLP", loaded.Name)
	assert.Equal(t, 2, loaded.Version)

	require.NoError(t, repo.Delete(ctx, customer.ID))
	_, err = repo.FindByID(ctx, customer.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSupplierRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(sqlitetest.Open(t))

	supplier, err := partner.NewSupplier(partner.ContactInfo{Name: "Kerama Supply", Phone: "+7 700 000 0000"}, "Dana")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, supplier))

	filter := shared.DefaultFilter()
	filter.Search = "dana"
	suppliers, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Dana", suppliers[0].ContactPerson)
}
