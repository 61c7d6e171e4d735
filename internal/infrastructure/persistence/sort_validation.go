package persistence

import (
	"strings"
)

// SortFields is the set of columns a list endpoint may order by
type SortFields map[string]bool

// sortable builds a whitelist from the audit columns every table has plus cols
func sortable(cols ...string) SortFields {
	fields := SortFields{"id": true, "created_at": true, "updated_at": true}
	for _, c := range cols {
		fields[c] = true
	}
	return fields
}

var (
	ProductSortFields       = sortable("sku", "name", "price", "cost", "is_active", "reorder_level")
	CustomerSortFields      = sortable("name", "email", "phone")
	SupplierSortFields      = sortable("name", "email", "phone", "contact_person")
	WarehouseSortFields     = sortable("code", "name", "is_active")
	InventorySortFields     = sortable("product_id", "warehouse_id", "quantity", "reserved_quantity")
	SalesOrderSortFields    = sortable("order_number", "status", "subtotal", "total")
	PurchaseOrderSortFields = sortable("order_number", "status", "total", "expected_date", "received_at")
	LeadSortFields          = sortable("status", "priority", "source", "estimated_value")
)

// ValidateSortOrder returns ASC only for an explicit ascending request
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField.
// Only whitelisted names ever reach the ORDER BY clause.
func ValidateSortField(sortField string, allowed SortFields, defaultField string) string {
	if f := strings.TrimSpace(sortField); allowed[f] {
		return f
	}
	return defaultField
}

// orderClause renders the validated ORDER BY expression for a list query
func orderClause(sortField, orderDir string, allowed SortFields, defaultField string) string {
	return ValidateSortField(sortField, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}
