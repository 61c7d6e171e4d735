package trade

import (
	"fmt"
	"time"

	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItem is a line of a purchase order. Quantities are in m².
type PurchaseOrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	// ReceivedQuantity overrides Quantity on receipt when positive
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Line returns the pricing view of the item
func (i PurchaseOrderItem) Line() pricing.PurchaseLine {
	return pricing.PurchaseLine{
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
	}
}

// ReceiptQuantity is the quantity added to stock when the order is received
func (i PurchaseOrderItem) ReceiptQuantity() decimal.Decimal {
	if i.ReceivedQuantity.IsPositive() {
		return i.ReceivedQuantity
	}
	return i.Quantity
}

// PurchaseOrder is the aggregate root for purchase orders
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber         string              `gorm:"type:varchar(32);not null;uniqueIndex"`
	SupplierID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status              PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	TaxAmount           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Total               decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	ExpectedDate        *time.Time
	Notes               string `gorm:"type:text"`
	ReceivedAt          *time.Time
	ReceivedWarehouseID *uuid.UUID          `gorm:"type:uuid"`
	Items               []PurchaseOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a pending purchase order with tax at the fixed purchase rate
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, lines []pricing.PurchaseLine, expectedDate *time.Time, notes string) (*PurchaseOrder, error) {
	var errs shared.ValidationErrors
	if orderNumber == "" {
		errs.Add("order_number", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		errs.Add("supplier_id", "Select a supplier")
	}
	if len(lines) == 0 {
		errs.Add("items", "Add at least one item")
	}
	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if line.ProductID == uuid.Nil {
			errs.Add(field+".product_id", fmt.Sprintf("Item %d: select a product", i+1))
		}
		if !line.Quantity.IsPositive() {
			errs.Add(field+".quantity", fmt.Sprintf("Item %d: quantity must be greater than zero", i+1))
		}
		if !line.UnitPrice.IsPositive() {
			errs.Add(field+".unit_price", fmt.Sprintf("Item %d: price must be greater than zero", i+1))
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		Status:            PurchaseOrderStatusPending,
		ExpectedDate:      expectedDate,
		Notes:             notes,
		Items:             make([]PurchaseOrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.Items = append(order.Items, PurchaseOrderItem{
			BaseEntity:       shared.NewBaseEntity(),
			OrderID:          order.ID,
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			ReceivedQuantity: decimal.Zero,
			UnitPrice:        line.UnitPrice,
			Total:            line.Total(),
		})
	}
	totals := pricing.QuotePurchaseOrder(order.Lines())
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.Tax
	order.Total = totals.Total

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))
	return order, nil
}

// Lines returns the pricing view of all items
func (o *PurchaseOrder) Lines() []pricing.PurchaseLine {
	lines := make([]pricing.PurchaseLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = item.Line()
	}
	return lines
}

// SetReceivedQuantity records the quantity actually delivered for an item
func (o *PurchaseOrder) SetReceivedQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status == PurchaseOrderStatusReceived {
		return shared.NewDomainError("ALREADY_RECEIVED", "Purchase order has already been received")
	}
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].ReceivedQuantity = quantity
			o.Items[i].Touch()
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in purchase order")
}

// Transition moves the order to target and returns the stock movement the
// move calls for. warehouseID is required for received.
func (o *PurchaseOrder) Transition(target PurchaseOrderStatus, warehouseID *uuid.UUID) (StockEffect, error) {
	if !target.IsValid() {
		return StockEffectNone, shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status: "+string(target))
	}
	if target == PurchaseOrderStatusReceived && o.Status == PurchaseOrderStatusReceived {
		return StockEffectNone, shared.NewDomainError("ALREADY_RECEIVED", "Purchase order has already been received")
	}
	if target == PurchaseOrderStatusReceived && (warehouseID == nil || *warehouseID == uuid.Nil) {
		return StockEffectNone, shared.ValidationErrors{{
			Field:   "warehouse_id",
			Message: "Select a warehouse to receive the order into",
		}}
	}
	if !o.Status.CanTransitionTo(target) {
		return StockEffectNone, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change purchase order status from %s to %s", o.Status, target))
	}

	effect := StockEffectNone
	if target == PurchaseOrderStatusReceived {
		effect = StockEffectReceive
		now := time.Now()
		wid := *warehouseID
		o.ReceivedAt = &now
		o.ReceivedWarehouseID = &wid
	}

	from := o.Status
	o.Status = target
	o.Touch()
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, from, effect))
	return effect, nil
}

// Receive is Transition to received
func (o *PurchaseOrder) Receive(warehouseID uuid.UUID) (StockEffect, error) {
	return o.Transition(PurchaseOrderStatusReceived, &warehouseID)
}

// AvailableTransitions lists the statuses the order can move to next
func (o *PurchaseOrder) AvailableTransitions() []PurchaseOrderStatus {
	out := make([]PurchaseOrderStatus, 0, len(PurchaseOrderStatuses))
	for _, s := range PurchaseOrderStatuses {
		if o.Status.CanTransitionTo(s) {
			out = append(out, s)
		}
	}
	return out
}

// CanDelete returns an error once the order has been received
func (o *PurchaseOrder) CanDelete() error {
	if o.Status == PurchaseOrderStatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a received purchase order")
	}
	return nil
}
