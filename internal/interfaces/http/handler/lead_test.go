package handler_test

import (
	"net/http"
	"testing"

	crmapp "github.com/erp/tilestock/internal/application/crm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadHandler(t *testing.T) {
	a := newAPI(t)

	var created crmapp.LeadResponse
	data(t, a.do(t, "POST", "/leads", map[string]any{
		"customer_id": a.customer.ID, "source": "Showroom", "priority": "high", "estimated_value": "48000.00",
	}), http.StatusCreated, &created)
	assert.Equal(t, "new", created.Status)
	assert.Equal(t, "high", created.Priority)
	require.NotNil(t, created.CustomerID)
	assert.Equal(t, a.customer.ID, *created.CustomerID)
	base := "/leads/" + created.ID.String()

	var updated crmapp.LeadResponse
	data(t, a.do(t, "PUT", base, map[string]any{
		"customer_id": a.customer.ID, "source": "Showroom", "priority": "high",
		"estimated_value": "52000", "status": "qualified",
	}), http.StatusOK, &updated)
	assert.Equal(t, "qualified", updated.Status)
	assert.Equal(t, []string{"converted", "lost"}, updated.Transitions)
	assert.True(t, dec("52000").Equal(*updated.EstimatedValue))

	failure(t, a.do(t, "PUT", base, map[string]any{"status": "contacted"}), http.StatusUnprocessableEntity, "ERR_INVALID_STATE")

	var list []crmapp.LeadResponse
	env := data(t, a.do(t, "GET", "/leads?status=qualified&customer_id="+a.customer.ID.String(), nil), http.StatusOK, &list)
	assert.Equal(t, int64(1), env.Meta.Total)
	require.Len(t, list, 1)
	failure(t, a.do(t, "GET", "/leads?status=won", nil), http.StatusBadRequest, "INVALID_STATUS")

	var converted crmapp.LeadResponse
	data(t, a.do(t, "PUT", base+"/convert", nil), http.StatusOK, &converted)
	assert.Equal(t, "converted", converted.Status)
	assert.Equal(t, "Converted", converted.StatusLabel)
	failure(t, a.do(t, "PUT", base+"/convert", nil), http.StatusUnprocessableEntity, "ERR_INVALID_STATE")

	failure(t, a.do(t, "DELETE", "/customers/"+a.customer.ID.String(), nil), http.StatusConflict, "CUSTOMER_IN_USE")

	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", base, nil).Code)
	failure(t, a.do(t, "GET", base, nil), http.StatusNotFound, "ERR_NOT_FOUND")
	failure(t, a.do(t, "PUT", base+"/convert", nil), http.StatusNotFound, "ERR_NOT_FOUND")
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/customers/"+a.customer.ID.String(), nil).Code)
}

func TestLeadHandler_Errors(t *testing.T) {
	a := newAPI(t)

	info := failure(t, a.do(t, "POST", "/leads", map[string]any{
		"customer_id": uuid.New(), "priority": "urgent",
	}), http.StatusBadRequest, "ERR_VALIDATION")
	fields := detailFields(info)
	assert.Equal(t, "Customer not found", fields["customer_id"])
	assert.Contains(t, fields, "priority")

	info = failure(t, a.do(t, "POST", "/leads", map[string]any{"estimated_value": "-1"}), http.StatusBadRequest, "ERR_VALIDATION")
	assert.Equal(t, "Estimated value cannot be negative", detailFields(info)["estimated_value"])

	failure(t, a.do(t, "POST", "/leads", map[string]any{"estimated_value": "lots"}), http.StatusBadRequest, "ERR_INVALID_JSON")
	failure(t, a.do(t, "GET", "/leads/not-a-uuid", nil), http.StatusBadRequest, "ERR_VALIDATION")
	info = failure(t, a.do(t, "GET", "/leads?customer_id=nobody", nil), http.StatusBadRequest, "ERR_VALIDATION")
	assert.Equal(t, "Invalid UUID format", detailFields(info)["customer_id"])
}
