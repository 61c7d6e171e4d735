package trade

import (
	"time"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Sales Order DTOs
// ============================================================================

// CreateSalesOrderRequest represents a request to create a sales order.
// Item quantities are in m² unless quantity_unit is "piece".
type CreateSalesOrderRequest struct {
	CustomerID     uuid.UUID              `json:"customer_id"`
	WarehouseID    uuid.UUID              `json:"warehouse_id"`
	Items          []CreateSalesOrderItem `json:"items"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Notes          string                 `json:"notes" binding:"max=2000"`
}

// CreateSalesOrderItem represents one line of a new sales order
type CreateSalesOrderItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  *uuid.UUID      `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// UpdateStatusRequest moves an order to another status.
// warehouse_id is required for shipped, delivered and received.
type UpdateStatusRequest struct {
	Status      string     `json:"status" binding:"required"`
	WarehouseID *uuid.UUID `json:"warehouse_id"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID                     uuid.UUID                `json:"id"`
	OrderNumber            string                   `json:"order_number"`
	CustomerID             uuid.UUID                `json:"customer_id"`
	WarehouseID            uuid.UUID                `json:"warehouse_id"`
	Status                 string                   `json:"status"`
	StatusLabel            string                   `json:"status_label"`
	Items                  []SalesOrderItemResponse `json:"items"`
	Subtotal               decimal.Decimal          `json:"subtotal"`
	DiscountAmount         decimal.Decimal          `json:"discount_amount"`
	TaxRate                decimal.Decimal          `json:"tax_rate"`
	TaxAmount              decimal.Decimal          `json:"tax_amount"`
	Total                  decimal.Decimal          `json:"total"`
	Notes                  string                   `json:"notes"`
	StockDeducted          bool                     `json:"stock_deducted"`
	FulfillmentWarehouseID *uuid.UUID               `json:"fulfillment_warehouse_id,omitempty"`
	CreatedAt              time.Time                `json:"created_at"`
	UpdatedAt              time.Time                `json:"updated_at"`
	Version                int                      `json:"version"`
}

// SalesOrderItemResponse represents a sales order line in API responses
type SalesOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(order *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = SalesOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			WarehouseID: item.WarehouseID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Total:       item.Total,
		}
	}
	return SalesOrderResponse{
		ID:                     order.ID,
		OrderNumber:            order.OrderNumber,
		CustomerID:             order.CustomerID,
		WarehouseID:            order.WarehouseID,
		Status:                 string(order.Status),
		StatusLabel:            order.Status.Label(),
		Items:                  items,
		Subtotal:               order.Subtotal,
		DiscountAmount:         order.DiscountAmount,
		TaxRate:                order.TaxRate,
		TaxAmount:              order.TaxAmount,
		Total:                  order.Total,
		Notes:                  order.Notes,
		StockDeducted:          order.StockDeducted,
		FulfillmentWarehouseID: order.FulfillmentWarehouseID,
		CreatedAt:              order.CreatedAt,
		UpdatedAt:              order.UpdatedAt,
		Version:                order.Version,
	}
}

// ============================================================================
// Purchase Order DTOs
// ============================================================================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                 `json:"supplier_id"`
	Items        []CreatePurchaseOrderItem `json:"items"`
	ExpectedDate *time.Time                `json:"expected_date"`
	Notes        string                    `json:"notes" binding:"max=2000"`
}

// CreatePurchaseOrderItem represents one line of a new purchase order
type CreatePurchaseOrderItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// ReceiveRequest receives a purchase order into a warehouse. Items may
// override the delivered quantity of individual lines.
type ReceiveRequest struct {
	WarehouseID uuid.UUID          `json:"warehouse_id" form:"warehouse_id"`
	Items       []ReceiveItemInput `json:"items"`
}

// ReceiveItemInput is the delivered quantity of one purchase order line
type ReceiveItemInput struct {
	ItemID           uuid.UUID       `json:"item_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                  uuid.UUID                   `json:"id"`
	OrderNumber         string                      `json:"order_number"`
	SupplierID          uuid.UUID                   `json:"supplier_id"`
	Status              string                      `json:"status"`
	StatusLabel         string                      `json:"status_label"`
	Items               []PurchaseOrderItemResponse `json:"items"`
	Subtotal            decimal.Decimal             `json:"subtotal"`
	TaxAmount           decimal.Decimal             `json:"tax_amount"`
	Total               decimal.Decimal             `json:"total"`
	ExpectedDate        *time.Time                  `json:"expected_date,omitempty"`
	Notes               string                      `json:"notes"`
	ReceivedAt          *time.Time                  `json:"received_at,omitempty"`
	ReceivedWarehouseID *uuid.UUID                  `json:"received_warehouse_id,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
	Version             int                         `json:"version"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Total            decimal.Decimal `json:"total"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitPrice:        item.UnitPrice,
			Total:            item.Total,
		}
	}
	return PurchaseOrderResponse{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		SupplierID:          order.SupplierID,
		Status:              string(order.Status),
		StatusLabel:         order.Status.Label(),
		Items:               items,
		Subtotal:            order.Subtotal,
		TaxAmount:           order.TaxAmount,
		Total:               order.Total,
		ExpectedDate:        order.ExpectedDate,
		Notes:               order.Notes,
		ReceivedAt:          order.ReceivedAt,
		ReceivedWarehouseID: order.ReceivedWarehouseID,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
		Version:             order.Version,
	}
}

// ============================================================================
// Shared DTOs
// ============================================================================

// StatusOption is a status the UI may offer, with its display label
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TransitionsResponse lists the statuses an order can move to next
type TransitionsResponse struct {
	Current   StatusOption   `json:"current"`
	Available []StatusOption `json:"available"`
}

// ListFilter represents filter options for order lists
type ListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toFilter() (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
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
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	filter, err := filter.WhereID("customer_id", f.CustomerID)
	if err != nil {
		return filter, err
	}
	return filter.WhereID("supplier_id", f.SupplierID)
}
