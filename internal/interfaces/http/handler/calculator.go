package handler

import (
	calculatorapp "github.com/erp/tilestock/internal/application/calculator"
	"github.com/gin-gonic/gin"
)

// CalculatorHandler exposes the quantity and total calculations used while
// an order or adjustment is being edited
type CalculatorHandler struct {
	BaseHandler
	calculatorService *calculatorapp.CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler(calculatorService *calculatorapp.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

// Convert handles POST /calculator/convert
func (h *CalculatorHandler) Convert(c *gin.Context) {
	var req calculatorapp.ConvertRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.calculatorService.Convert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Snap handles POST /calculator/snap
func (h *CalculatorHandler) Snap(c *gin.Context) {
	var req calculatorapp.SnapRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.calculatorService.Snap(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Step handles POST /calculator/step
func (h *CalculatorHandler) Step(c *gin.Context) {
	var req calculatorapp.StepRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.calculatorService.Step(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Quote handles POST /calculator/quote
func (h *CalculatorHandler) Quote(c *gin.Context) {
	var req calculatorapp.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.calculatorService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
