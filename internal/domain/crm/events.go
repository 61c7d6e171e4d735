package crm

import (
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeLead is the aggregate type of lead events
const AggregateTypeLead = "Lead"

// Event type constants
const (
	EventTypeLeadStatusChanged = "LeadStatusChanged"
	EventTypeLeadConverted     = "LeadConverted"
)

// LeadStatusChangedEvent is raised on every lead transition
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	From LeadStatus `json:"from"`
	To   LeadStatus `json:"to"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(l *Lead, from LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, l.ID),
		From:            from,
		To:              l.Status,
	}
}

// LeadConvertedEvent is raised when a lead is won. EstimatedValue is nil
// when the lead never had one.
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	CustomerID     *uuid.UUID       `json:"customer_id,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	Source         string           `json:"source"`
}

// NewLeadConvertedEvent creates a new LeadConvertedEvent
func NewLeadConvertedEvent(l *Lead) *LeadConvertedEvent {
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadConverted, AggregateTypeLead, l.ID),
		CustomerID:      l.CustomerID,
		EstimatedValue:  l.EstimatedValue,
		Source:          l.Source,
	}
}
