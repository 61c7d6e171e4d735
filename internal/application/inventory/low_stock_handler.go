package inventory

import (
	"context"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler warns when a stock movement leaves available stock at or
// below the product's reorder level
type LowStockHandler struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(productRepo catalog.ProductRepository, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{productRepo: productRepo, logger: logger}
}

// EventTypes returns the stock-reducing event types
func (h *LowStockHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeInventoryAdjusted,
		inventory.EventTypeStockReserved,
		inventory.EventTypeStockDeducted,
		inventory.EventTypeStockTransferred,
	}
}

// Handle checks the balance carried by the event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(inventory.BalanceChanged)
	if !ok {
		return nil
	}
	balance := changed.Balance()

	product, err := h.productRepo.FindByID(ctx, balance.ProductID)
	if err != nil {
		return err
	}
	available := balance.Available()
	if !product.IsLowStock(available) {
		return nil
	}

	h.logger.Warn("stock at or below reorder level",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.String("warehouse_id", balance.WarehouseID.String()),
		zap.String("available", available.StringFixed(3)),
		zap.String("reorder_level", product.ReorderLevel.StringFixed(3)),
		zap.String("reorder_quantity", product.ReorderQuantity.StringFixed(3)),
	)
	return nil
}
