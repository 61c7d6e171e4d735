package inventory

import (
	"context"
	"testing"

	"github.com/erp/tilestock/internal/domain/measure"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type key struct{ product, warehouse uuid.UUID }

type memoryRepo struct {
	records map[key]*InventoryRecord
	saves   int
}

func newMemoryRepo(records ...*InventoryRecord) *memoryRepo {
	repo := &memoryRepo{records: make(map[key]*InventoryRecord)}
	for _, r := range records {
		repo.records[key{r.ProductID, r.WarehouseID}] = r
	}
	return repo
}

func (m *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*InventoryRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryRecord, error) {
	return m.FindByID(ctx, id)
}

func (m *memoryRepo) FindByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) (*InventoryRecord, error) {
	if r, ok := m.records[key{productID, warehouseID}]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) FindByProductAndWarehouseForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryRecord, error) {
	return m.FindByProductAndWarehouse(ctx, productID, warehouseID)
}

func (m *memoryRepo) FindAll(context.Context, shared.Filter) ([]InventoryRecord, int64, error) {
	out := make([]InventoryRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) FindLowStock(context.Context, shared.Filter) ([]InventoryRecord, int64, error) {
	return nil, 0, nil
}

func (m *memoryRepo) Save(_ context.Context, record *InventoryRecord) error {
	m.saves++
	m.records[key{record.ProductID, record.WarehouseID}] = record
	return nil
}

func (m *memoryRepo) ExistsForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	for k := range m.records {
		if k.product == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) ExistsForWarehouse(_ context.Context, warehouseID uuid.UUID) (bool, error) {
	for k := range m.records {
		if k.warehouse == warehouseID {
			return true, nil
		}
	}
	return false, nil
}

func TestLedger_ReserveReleaseDeduct(t *testing.T) {
	ctx := context.Background()
	rec := createTestRecord(t, "50", "0")
	repo := newMemoryRepo(rec)
	ledger := NewLedger(repo, DefaultBalancePolicy())

	require.NoError(t, ledger.Reserve(ctx, rec.ProductID, rec.WarehouseID, d("12.5")))
	assert.True(t, d("37.5").Equal(rec.Available()))

	err := ledger.Reserve(ctx, rec.ProductID, rec.WarehouseID, d("40"))
	requireCode(t, err, "INSUFFICIENT_STOCK")

	err = ledger.Reserve(ctx, rec.ProductID, uuid.New(), d("1"))
	requireCode(t, err, "INSUFFICIENT_STOCK")

	require.NoError(t, ledger.Release(ctx, rec.ProductID, rec.WarehouseID, d("12.5")))
	require.NoError(t, ledger.Deduct(ctx, rec.ProductID, rec.WarehouseID, d("12.5")))
	assert.True(t, d("37.5").Equal(rec.Quantity))
	assert.True(t, rec.ReservedQuantity.IsZero())

	types := make([]string, 0)
	for _, e := range ledger.Events() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypeStockReserved, EventTypeStockReleased, EventTypeStockDeducted}, types)
	assert.Empty(t, rec.GetDomainEvents())
}

func TestLedger_ReleaseIsForgiving(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	ledger := NewLedger(repo, DefaultBalancePolicy())

	require.NoError(t, ledger.Release(ctx, uuid.New(), uuid.New(), d("3")))
	assert.Equal(t, 0, repo.saves)
}

func TestLedger_DeductMissingRecord(t *testing.T) {
	ctx := context.Background()
	productID, warehouseID := uuid.New(), uuid.New()

	err := NewLedger(newMemoryRepo(), DefaultBalancePolicy()).Deduct(ctx, productID, warehouseID, d("2"))
	requireCode(t, err, "INSUFFICIENT_STOCK")

	repo := newMemoryRepo()
	require.NoError(t, NewLedger(repo, PermissivePolicy()).Deduct(ctx, productID, warehouseID, d("2")))
	rec, err := repo.FindByProductAndWarehouse(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, d("-2").Equal(rec.Quantity))
}

func TestLedger_ReceiveCreatesRecord(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	ledger := NewLedger(repo, DefaultBalancePolicy())
	productID, warehouseID, poID := uuid.New(), uuid.New(), uuid.New()

	rec, err := ledger.Receive(ctx, productID, warehouseID, d("50"), poID)
	require.NoError(t, err)
	assert.True(t, d("50").Equal(rec.Quantity))

	rec, err = ledger.Receive(ctx, productID, warehouseID, d("10"), poID)
	require.NoError(t, err)
	assert.True(t, d("60").Equal(rec.Quantity))
	assert.Len(t, repo.records, 1)
}

func TestLedger_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		rec := createTestRecord(t, "100", "20")
		ledger := NewLedger(newMemoryRepo(rec), DefaultBalancePolicy())
		got, err := ledger.Adjust(ctx, rec.ID, AdjustmentSubtract, d("30"), nil)
		require.NoError(t, err)
		assert.True(t, d("70").Equal(got.Quantity))
		assert.True(t, d("50").Equal(got.Available()))
	})

	t.Run("unknown record", func(t *testing.T) {
		ledger := NewLedger(newMemoryRepo(), DefaultBalancePolicy())
		_, err := ledger.Adjust(ctx, uuid.New(), AdjustmentAdd, d("1"), nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lowering quantity together with reservation", func(t *testing.T) {
		rec := createTestRecord(t, "100", "20")
		ledger := NewLedger(newMemoryRepo(rec), DefaultBalancePolicy())
		reserved := d("5")
		got, err := ledger.AdjustProduct(ctx, rec.ProductID, rec.WarehouseID, AdjustmentSet, d("10"), &reserved)
		require.NoError(t, err)
		assert.True(t, d("10").Equal(got.Quantity))
		assert.True(t, d("5").Equal(got.ReservedQuantity))
	})

	t.Run("reservation above quantity", func(t *testing.T) {
		rec := createTestRecord(t, "100", "20")
		ledger := NewLedger(newMemoryRepo(rec), DefaultBalancePolicy())
		reserved := d("11")
		_, err := ledger.Adjust(ctx, rec.ID, AdjustmentSet, d("10"), &reserved)
		requireCode(t, err, "RESERVED_EXCEEDS_QUANTITY")
	})
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	src := createTestRecord(t, "30", "10")
	repo := newMemoryRepo(src)
	ledger := NewLedger(repo, DefaultBalancePolicy())
	dest := uuid.New()

	t.Run("exceeding available", func(t *testing.T) {
		_, _, err := ledger.Transfer(ctx, src.ProductID, src.WarehouseID, dest, d("20.001"))
		requireCode(t, err, "INSUFFICIENT_STOCK")
		assert.True(t, d("30").Equal(src.Quantity))
		assert.Len(t, repo.records, 1)
	})

	t.Run("same warehouse", func(t *testing.T) {
		_, _, err := ledger.Transfer(ctx, src.ProductID, src.WarehouseID, src.WarehouseID, d("1"))
		requireCode(t, err, "SAME_WAREHOUSE")
	})

	t.Run("moves stock and creates destination", func(t *testing.T) {
		from, to, err := ledger.Transfer(ctx, src.ProductID, src.WarehouseID, dest, d("20"))
		require.NoError(t, err)
		assert.True(t, d("10").Equal(from.Quantity))
		assert.True(t, d("10").Equal(from.ReservedQuantity))
		assert.True(t, d("20").Equal(to.Quantity))
		assert.Equal(t, dest, to.WarehouseID)
		assert.Len(t, repo.records, 2)
	})
}

func TestDraftAdjustment(t *testing.T) {
	length, width := d("600"), d("600")
	dims := measure.NewTileDimensions(&length, &width)

	adj := DraftAdjustment{
		ProductID:   uuid.New(),
		WarehouseID: uuid.New(),
		Type:        AdjustmentAdd,
		Quantity:    measure.NewDisplayQuantity(d("10"), measure.UnitPiece),
		Dimensions:  dims,
	}
	assert.False(t, adj.Validate().HasErrors())
	assert.True(t, d("3.6").Equal(adj.Amount()))

	empty := DraftAdjustment{Type: AdjustmentSubtract}
	assert.Equal(t, []string{
		"Select a product",
		"Select a warehouse",
		"Quantity must be greater than zero",
	}, empty.Validate().Messages())

	set := DraftAdjustment{ProductID: uuid.New(), WarehouseID: uuid.New(), Type: AdjustmentSet,
		Quantity: measure.NewDisplayQuantity(decimal.Zero, measure.UnitArea)}
	assert.False(t, set.Validate().HasErrors())
}
