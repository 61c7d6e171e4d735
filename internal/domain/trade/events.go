package trade

import (
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder    = "SalesOrder"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeSalesOrderCreated          = "SalesOrderCreated"
	EventTypeSalesOrderStatusChanged    = "SalesOrderStatusChanged"
	EventTypePurchaseOrderCreated       = "PurchaseOrderCreated"
	EventTypePurchaseOrderStatusChanged = "PurchaseOrderStatusChanged"
)

// SalesOrderCreatedEvent is raised when a sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		ItemCount:       len(order.Items),
		Total:           order.Total,
	}
}

// SalesOrderStatusChangedEvent is raised on every sales order transition
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string           `json:"order_number"`
	From        SalesOrderStatus `json:"from"`
	To          SalesOrderStatus `json:"to"`
	StockEffect string           `json:"stock_effect"`
}

// NewSalesOrderStatusChangedEvent creates a new SalesOrderStatusChangedEvent
func NewSalesOrderStatusChangedEvent(order *SalesOrder, from SalesOrderStatus, effect StockEffect) *SalesOrderStatusChangedEvent {
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStatusChanged, AggregateTypeSalesOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		From:            from,
		To:              order.Status,
		StockEffect:     effect.String(),
	}
}

// PurchaseOrderCreatedEvent is raised when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		ItemCount:       len(order.Items),
		Total:           order.Total,
	}
}

// PurchaseOrderStatusChangedEvent is raised on every purchase order transition
type PurchaseOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber         string              `json:"order_number"`
	From                PurchaseOrderStatus `json:"from"`
	To                  PurchaseOrderStatus `json:"to"`
	StockEffect         string              `json:"stock_effect"`
	ReceivedWarehouseID *uuid.UUID          `json:"received_warehouse_id,omitempty"`
}

// NewPurchaseOrderStatusChangedEvent creates a new PurchaseOrderStatusChangedEvent
func NewPurchaseOrderStatusChangedEvent(order *PurchaseOrder, from PurchaseOrderStatus, effect StockEffect) *PurchaseOrderStatusChangedEvent {
	return &PurchaseOrderStatusChangedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypePurchaseOrderStatusChanged, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:         order.OrderNumber,
		From:                from,
		To:                  order.Status,
		StockEffect:         effect.String(),
		ReceivedWarehouseID: order.ReceivedWarehouseID,
	}
}
