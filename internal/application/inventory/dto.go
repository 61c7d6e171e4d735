package inventory

import (
	"time"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/inventory"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryResponse represents an inventory record in API responses.
// Quantities are in m².
type InventoryResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToInventoryResponse converts a domain InventoryRecord to InventoryResponse
func ToInventoryResponse(r *inventory.InventoryRecord) InventoryResponse {
	return InventoryResponse{
		ID:                r.ID,
		ProductID:         r.ProductID,
		WarehouseID:       r.WarehouseID,
		Quantity:          r.Quantity,
		ReservedQuantity:  r.ReservedQuantity,
		AvailableQuantity: r.Available(),
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// LowStockResponse is an inventory record at or below its reorder level
type LowStockResponse struct {
	InventoryResponse
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	ReorderQuantity decimal.Decimal `json:"reorder_quantity"`
}

func toLowStockResponse(r *inventory.InventoryRecord, p *catalog.Product) LowStockResponse {
	resp := LowStockResponse{InventoryResponse: ToInventoryResponse(r)}
	if p != nil {
		resp.SKU = p.SKU
		resp.ProductName = p.Name
		resp.ReorderLevel = p.ReorderLevel
		resp.ReorderQuantity = p.ReorderQuantity
	}
	return resp
}

// ListFilter represents filter options for the inventory list
type ListFilter struct {
	ProductID   string `form:"product_id"`
	WarehouseID string `form:"warehouse_id"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toFilter() (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "updated_at"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter, err := filter.WhereID("product_id", f.ProductID)
	if err != nil {
		return filter, err
	}
	return filter.WhereID("warehouse_id", f.WarehouseID)
}

// AdjustRequest applies an add/subtract/set adjustment. The quantity is in
// m² unless quantity_unit is "piece".
type AdjustRequest struct {
	ProductID          uuid.UUID        `json:"product_id" binding:"required"`
	WarehouseID        uuid.UUID        `json:"warehouse_id" binding:"required"`
	AdjustmentType     string           `json:"adjustment_type" binding:"required,oneof=add subtract set"`
	AdjustmentQuantity decimal.Decimal  `json:"adjustment_quantity"`
	QuantityUnit       string           `json:"quantity_unit"`
	ReservedQuantity   *decimal.Decimal `json:"reserved_quantity"`
}

// UpdateRequest overwrites the balances of a record
type UpdateRequest struct {
	Quantity         decimal.Decimal  `json:"quantity"`
	QuantityUnit     string           `json:"quantity_unit"`
	ReservedQuantity *decimal.Decimal `json:"reserved_quantity"`
}

// TransferRequest moves stock between warehouses
type TransferRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityUnit    string          `json:"quantity_unit"`
}

// TransferResponse holds both records after a transfer
type TransferResponse struct {
	From InventoryResponse `json:"from"`
	To   InventoryResponse `json:"to"`
}
