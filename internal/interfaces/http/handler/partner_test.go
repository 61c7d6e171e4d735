package handler_test

import (
	"net/http"
	"testing"

	partnerapp "github.com/erp/tilestock/internal/application/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler(t *testing.T) {
	a := newAPI(t)

	var created partnerapp.CustomerResponse
	data(t, a.do(t, "POST", "/customers", map[string]any{
		"name": "Tiles R Us", "email": "hello@tiles.example", "phone": "555-0100",
	}), http.StatusCreated, &created)
	assert.Equal(t, "Tiles R Us", created.Name)

	var updated partnerapp.CustomerResponse
	data(t, a.do(t, "PUT", "/customers/"+created.ID.String(), map[string]any{
		"name": "Tiles R Us Ltd", "address": "Harbour 4",
	}), http.StatusOK, &updated)
	assert.Equal(t, "Tiles R Us Ltd", updated.Name)
	assert.Equal(t, "Harbour 4", updated.Address)

	var list []partnerapp.CustomerResponse
	env := data(t, a.do(t, "GET", "/customers?search=Tiles", nil), http.StatusOK, &list)
	assert.Equal(t, int64(1), env.Meta.Total)
	require.Len(t, list, 1)

	info := failure(t, a.do(t, "POST", "/customers", map[string]any{"name": "X", "email": "nope"}), http.StatusBadRequest, "ERR_VALIDATION")
	assert.Equal(t, "Invalid email format", detailFields(info)["email"])

	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/customers/"+created.ID.String(), nil).Code)
	failure(t, a.do(t, "GET", "/customers/"+created.ID.String(), nil), http.StatusNotFound, "ERR_NOT_FOUND")
}

func TestCustomerHandler_DeleteWithOrders(t *testing.T) {
	a := newAPI(t)
	a.stock(t, a.main, "100", "0")
	data(t, a.do(t, "POST", "/orders", a.salesOrderBody()), http.StatusCreated, nil)

	failure(t, a.do(t, "DELETE", "/customers/"+a.customer.ID.String(), nil), http.StatusConflict, "CUSTOMER_IN_USE")
}

func TestSupplierHandler(t *testing.T) {
	a := newAPI(t)

	var created partnerapp.SupplierResponse
	data(t, a.do(t, "POST", "/suppliers", map[string]any{
		"name": "Cotto Imports", "contact_person": "Marta",
	}), http.StatusCreated, &created)
	assert.Equal(t, "Marta", created.ContactPerson)

	var got partnerapp.SupplierResponse
	data(t, a.do(t, "GET", "/suppliers/"+created.ID.String(), nil), http.StatusOK, &got)
	assert.Equal(t, "Cotto Imports", got.Name)

	data(t, a.do(t, "POST", "/purchase-orders", a.purchaseOrderBody()), http.StatusCreated, nil)
	failure(t, a.do(t, "DELETE", "/suppliers/"+a.supplier.ID.String(), nil), http.StatusConflict, "SUPPLIER_IN_USE")
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/suppliers/"+created.ID.String(), nil).Code)
}

func TestWarehouseHandler(t *testing.T) {
	a := newAPI(t)

	var created partnerapp.WarehouseResponse
	data(t, a.do(t, "POST", "/warehouses", map[string]any{
		"code": "north", "name": "North Depot",
	}), http.StatusCreated, &created)
	assert.Equal(t, "NORTH", created.Code)
	assert.True(t, created.IsActive)

	failure(t, a.do(t, "POST", "/warehouses", map[string]any{"code": "NORTH", "name": "Again"}), http.StatusConflict, "ERR_ALREADY_EXISTS")

	var deactivated partnerapp.WarehouseResponse
	data(t, a.do(t, "PUT", "/warehouses/"+created.ID.String(), map[string]any{
		"name": "North Depot", "is_active": false,
	}), http.StatusOK, &deactivated)
	assert.False(t, deactivated.IsActive)

	var active []partnerapp.WarehouseResponse
	data(t, a.do(t, "GET", "/warehouses?is_active=true", nil), http.StatusOK, &active)
	assert.Len(t, active, 2)

	a.stock(t, a.main, "1", "0")
	failure(t, a.do(t, "DELETE", "/warehouses/"+a.main.ID.String(), nil), http.StatusConflict, "WAREHOUSE_IN_USE")
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/warehouses/"+created.ID.String(), nil).Code)
}
