package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/tilestock/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Unit      string `json:"quantity_unit" binding:"omitempty,oneof=area piece"`
}

type orderInput struct {
	Email string      `json:"email" binding:"omitempty,email"`
	Notes string      `json:"notes" binding:"max=5"`
	Items []lineInput `json:"items" binding:"required,min=1,dive"`
}

func bindDetails(t *testing.T, body string) []dto.ValidationDetail {
	t.Helper()
	SetupValidator()

	var details []dto.ValidationDetail
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req orderInput
		err := c.ShouldBindJSON(&req)
		require.Error(t, err)
		var ok bool
		details, ok = ValidationDetails(err)
		require.True(t, ok)
		c.Status(http.StatusBadRequest)
	})

	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)
	return details
}

func TestValidationDetails(t *testing.T) {
	t.Run("uses json names", func(t *testing.T) {
		details := bindDetails(t, `{"email":"nope","notes":"far too long"}`)

		fields := map[string]string{}
		for _, d := range details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be at most 5 characters", fields["notes"])
		assert.Equal(t, "This field is required", fields["items"])
	})

	t.Run("nested fields keep their path", func(t *testing.T) {
		details := bindDetails(t, `{"items":[{"product_id":"x","quantity_unit":"box"}]}`)

		require.Len(t, details, 2)
		assert.Equal(t, "items[0].product_id", details[0].Field)
		assert.Equal(t, "Invalid UUID format", details[0].Message)
		assert.Equal(t, "items[0].quantity_unit", details[1].Field)
		assert.Equal(t, "Must be one of: area piece", details[1].Message)
	})

	t.Run("other errors are not validation errors", func(t *testing.T) {
		details, ok := ValidationDetails(errors.New("unexpected EOF"))
		assert.False(t, ok)
		assert.Nil(t, details)
	})
}
