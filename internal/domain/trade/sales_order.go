package trade

import (
	"fmt"

	"github.com/erp/tilestock/internal/domain/pricing"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderItem is a line of a sales order. Quantity is in m².
type SalesOrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// Line returns the pricing view of the item
func (i SalesOrderItem) Line() pricing.SalesLine {
	return pricing.SalesLine{
		ProductID:   i.ProductID,
		WarehouseID: i.WarehouseID,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Discount:    i.Discount,
	}
}

// SalesOrder is the aggregate root for sales orders
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string           `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID        `gorm:"type:uuid;not null"`
	Status         SalesOrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate        decimal.Decimal  `gorm:"type:decimal(5,4);not null"`
	TaxAmount      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Notes          string           `gorm:"type:text"`
	// StockDeducted is set by the first of shipped/delivered
	StockDeducted          bool             `gorm:"not null;default:false"`
	FulfillmentWarehouseID *uuid.UUID       `gorm:"type:uuid"`
	Items                  []SalesOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a pending sales order and computes its totals.
// Lines without a warehouse take the order warehouse.
func NewSalesOrder(orderNumber string, customerID, warehouseID uuid.UUID, lines []pricing.SalesLine, discount, taxRate decimal.Decimal, notes string) (*SalesOrder, error) {
	var errs shared.ValidationErrors
	if orderNumber == "" {
		errs.Add("order_number", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		errs.Add("customer_id", "Select a customer")
	}
	if warehouseID == uuid.Nil {
		errs.Add("warehouse_id", "Select a warehouse")
	}
	if len(lines) == 0 {
		errs.Add("items", "Add at least one item")
	}
	if discount.IsNegative() {
		errs.Add("discount_amount", "Discount cannot be negative")
	}
	if taxRate.IsNegative() {
		errs.Add("tax_rate", "Tax rate cannot be negative")
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
		if line.Discount.IsNegative() {
			errs.Add(field+".discount", fmt.Sprintf("Item %d: discount cannot be negative", i+1))
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		WarehouseID:       warehouseID,
		Status:            SalesOrderStatusPending,
		TaxRate:           taxRate,
		Notes:             notes,
		Items:             make([]SalesOrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		if line.WarehouseID == uuid.Nil {
			line.WarehouseID = warehouseID
		}
		order.Items = append(order.Items, SalesOrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			Total:       line.Total(),
		})
	}
	totals := pricing.QuoteSalesOrder(order.Lines(), discount, taxRate)
	order.Subtotal = totals.Subtotal
	order.DiscountAmount = totals.Discount
	order.TaxAmount = totals.Tax
	order.Total = totals.Total

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))
	return order, nil
}

// Lines returns the pricing view of all items
func (o *SalesOrder) Lines() []pricing.SalesLine {
	lines := make([]pricing.SalesLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = item.Line()
	}
	return lines
}

// HoldsReservations reports whether the items' stock is still reserved
func (o *SalesOrder) HoldsReservations() bool {
	return !o.StockDeducted && o.Status != SalesOrderStatusCancelled
}

// Transition moves the order to target and returns the stock movement the
// move calls for. warehouseID is required for shipped and delivered.
func (o *SalesOrder) Transition(target SalesOrderStatus, warehouseID *uuid.UUID) (StockEffect, error) {
	if !target.IsValid() {
		return StockEffectNone, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(target))
	}
	if target.RequiresWarehouse() && (warehouseID == nil || *warehouseID == uuid.Nil) {
		verb := "ship"
		if target == SalesOrderStatusDelivered {
			verb = "deliver"
		}
		return StockEffectNone, shared.ValidationErrors{{
			Field:   "warehouse_id",
			Message: "Select a warehouse to " + verb + " the order",
		}}
	}
	if !o.Status.CanTransitionTo(target) {
		return StockEffectNone, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	effect := StockEffectNone
	switch {
	case target.RequiresWarehouse() && !o.StockDeducted:
		effect = StockEffectDeduct
		o.StockDeducted = true
		wid := *warehouseID
		o.FulfillmentWarehouseID = &wid
	case target == SalesOrderStatusCancelled && !o.StockDeducted:
		effect = StockEffectRelease
	}

	from := o.Status
	o.Status = target
	o.Touch()
	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from, effect))
	return effect, nil
}

// AvailableTransitions lists the statuses the order can move to next
func (o *SalesOrder) AvailableTransitions() []SalesOrderStatus {
	out := make([]SalesOrderStatus, 0, len(SalesOrderStatuses))
	for _, s := range SalesOrderStatuses {
		if o.Status.CanTransitionTo(s) {
			out = append(out, s)
		}
	}
	return out
}

// CanDelete returns an error unless the order is pending or cancelled
func (o *SalesOrder) CanDelete() error {
	if o.Status != SalesOrderStatusPending && o.Status != SalesOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot delete order in %s status, only pending or cancelled orders can be deleted", o.Status))
	}
	return nil
}
