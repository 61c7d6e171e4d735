package crm

import (
	"time"

	"github.com/erp/tilestock/internal/domain/crm"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadRequest creates or updates a lead. Status is honoured on update only
// and must be a legal move from the current status.
type LeadRequest struct {
	CustomerID     *uuid.UUID       `json:"customer_id"`
	Source         string           `json:"source" binding:"max=100"`
	Priority       string           `json:"priority"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	Notes          string           `json:"notes"`
	Status         string           `json:"status"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             uuid.UUID        `json:"id"`
	CustomerID     *uuid.UUID       `json:"customer_id,omitempty"`
	Source         string           `json:"source"`
	Status         string           `json:"status"`
	StatusLabel    string           `json:"status_label"`
	Priority       string           `json:"priority"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	Notes          string           `json:"notes"`
	Transitions    []string         `json:"available_transitions"`
	Version        int              `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToLeadResponse converts a domain Lead to LeadResponse
func ToLeadResponse(l *crm.Lead) LeadResponse {
	next := l.AvailableTransitions()
	transitions := make([]string, len(next))
	for i, s := range next {
		transitions[i] = string(s)
	}
	return LeadResponse{
		ID:             l.ID,
		CustomerID:     l.CustomerID,
		Source:         l.Source,
		Status:         string(l.Status),
		StatusLabel:    l.Status.Label(),
		Priority:       string(l.Priority),
		EstimatedValue: l.EstimatedValue,
		Notes:          l.Notes,
		Transitions:    transitions,
		Version:        l.Version,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ListFilter represents filter options for lead lists
type ListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toFilter() (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Status != "" {
		status, err := crm.ParseLeadStatus(f.Status)
		if err != nil {
			return filter, err
		}
		filter = filter.Where("status", status)
	}
	if f.Priority != "" {
		priority, err := crm.ParseLeadPriority(f.Priority)
		if err != nil {
			return filter, err
		}
		filter = filter.Where("priority", priority)
	}
	return filter.WhereID("customer_id", f.CustomerID)
}
