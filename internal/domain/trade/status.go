package trade

import (
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusPending    SalesOrderStatus = "pending"
	SalesOrderStatusConfirmed  SalesOrderStatus = "confirmed"
	SalesOrderStatusProcessing SalesOrderStatus = "processing"
	SalesOrderStatusShipped    SalesOrderStatus = "shipped"
	SalesOrderStatusDelivered  SalesOrderStatus = "delivered"
	SalesOrderStatusCancelled  SalesOrderStatus = "cancelled"
)

// SalesOrderStatuses lists every status in lifecycle order
var SalesOrderStatuses = []SalesOrderStatus{
	SalesOrderStatusPending,
	SalesOrderStatusConfirmed,
	SalesOrderStatusProcessing,
	SalesOrderStatusShipped,
	SalesOrderStatusDelivered,
	SalesOrderStatusCancelled,
}

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusPending, SalesOrderStatusConfirmed, SalesOrderStatusProcessing,
		SalesOrderStatusShipped, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderStatusDelivered || s == SalesOrderStatusCancelled
}

// RequiresWarehouse reports whether moving to s takes stock out of a warehouse
func (s SalesOrderStatus) RequiresWarehouse() bool {
	return s == SalesOrderStatusShipped || s == SalesOrderStatusDelivered
}

// CanTransitionTo checks if the status can transition to the target status.
// Confirmed is reachable only from pending; processing, shipped, delivered
// and cancelled are reachable from any other non-terminal status. Pending is
// never a target.
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() || s == target {
		return false
	}
	switch target {
	case SalesOrderStatusPending:
		return false
	case SalesOrderStatusConfirmed:
		return s == SalesOrderStatusPending
	}
	return true
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// Label returns the display label, e.g. "Shipped"
func (s SalesOrderStatus) Label() string {
	return titleCaser.String(string(s))
}

// ParseSalesOrderStatus parses a sales order status
func ParseSalesOrderStatus(s string) (SalesOrderStatus, error) {
	status := SalesOrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+s)
	}
	return status, nil
}

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrderStatuses lists every status in lifecycle order
var PurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusOrdered,
	PurchaseOrderStatusReceived,
	PurchaseOrderStatusCancelled,
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// Label returns the display label, e.g. "Received"
func (s PurchaseOrderStatus) Label() string {
	return titleCaser.String(string(s))
}

// ParsePurchaseOrderStatus parses a purchase order status
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	status := PurchaseOrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status: "+s)
	}
	return status, nil
}

// StockEffect is the inventory movement a status transition calls for.
// The application layer executes it in the same transaction as the save.
type StockEffect int

const (
	StockEffectNone StockEffect = iota
	// StockEffectRelease gives back the reservations of every line
	StockEffectRelease
	// StockEffectDeduct releases every line's reservation and deducts the
	// quantity from the fulfilment warehouse
	StockEffectDeduct
	// StockEffectReceive adds every line's receipt quantity to the receiving warehouse
	StockEffectReceive
)

// String returns a name for logging
func (e StockEffect) String() string {
	switch e {
	case StockEffectRelease:
		return "release"
	case StockEffectDeduct:
		return "deduct"
	case StockEffectReceive:
		return "receive"
	}
	return "none"
}
