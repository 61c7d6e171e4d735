package inventory

import (
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
)

// NegativeStockMode decides what a subtract adjustment does when it would
// take the on-hand quantity below zero
type NegativeStockMode string

const (
	// NegativeStockClamp stops at zero
	NegativeStockClamp NegativeStockMode = "clamp"
	// NegativeStockReject fails the adjustment
	NegativeStockReject NegativeStockMode = "reject"
	// NegativeStockAllow records the negative balance, e.g. for back-orders
	NegativeStockAllow NegativeStockMode = "allow"
)

// ParseNegativeStockMode parses a configured mode; empty means clamp
func ParseNegativeStockMode(s string) (NegativeStockMode, error) {
	switch NegativeStockMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", NegativeStockClamp:
		return NegativeStockClamp, nil
	case NegativeStockReject:
		return NegativeStockReject, nil
	case NegativeStockAllow:
		return NegativeStockAllow, nil
	}
	return "", shared.NewDomainError("INVALID_POLICY", "Negative stock mode must be clamp, reject or allow")
}

// BalancePolicy makes the over-subtract and over-reserve rules explicit
type BalancePolicy struct {
	NegativeStock NegativeStockMode
	// EnforceReservedWithinQuantity rejects any change that leaves
	// reserved_quantity above quantity
	EnforceReservedWithinQuantity bool
}

// DefaultBalancePolicy clamps subtracts at zero and keeps reservations within on-hand stock
func DefaultBalancePolicy() BalancePolicy {
	return BalancePolicy{
		NegativeStock:                 NegativeStockClamp,
		EnforceReservedWithinQuantity: true,
	}
}

// PermissivePolicy never clamps and never checks reservations
func PermissivePolicy() BalancePolicy {
	return BalancePolicy{
		NegativeStock:                 NegativeStockAllow,
		EnforceReservedWithinQuantity: false,
	}
}
