package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Where(t *testing.T) {
	base := DefaultFilter()
	narrowed := base.Where("status", "pending")

	assert.Equal(t, "pending", narrowed.Filters["status"])
	assert.Empty(t, base.Filters, "Where must not modify the receiver")
	assert.Equal(t, base.PageSize, narrowed.PageSize)
}

func TestFilter_WhereID(t *testing.T) {
	id := uuid.New()
	narrowed, err := DefaultFilter().WhereID("customer_id", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, narrowed.Filters["customer_id"])

	unchanged, err := DefaultFilter().WhereID("customer_id", "")
	require.NoError(t, err)
	assert.Empty(t, unchanged.Filters)

	_, err = DefaultFilter().WhereID("customer_id", "nobody")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, FieldError{Field: "customer_id", Message: "Invalid UUID format"}, verrs[0])
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 3}.Offset())
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := NewPaginated([]int{}, tt.total, 1, tt.pageSize)
		assert.Equal(t, tt.pages, p.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}
