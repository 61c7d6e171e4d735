// Package crm tracks sales leads before they turn into orders.
package crm

import (
	"fmt"
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// LeadStatus is where a lead stands in the sales funnel
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every status in funnel order
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusLost,
}

var leadStage = map[LeadStatus]int{
	LeadStatusNew:       0,
	LeadStatusContacted: 1,
	LeadStatusQualified: 2,
}

// IsValid checks if the status is a valid LeadStatus
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// IsTerminal reports whether the lead is closed
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// CanTransitionTo checks if the status can move to target.
// Open leads advance through new, contacted and qualified; converted and
// lost close a lead from any open stage.
func (s LeadStatus) CanTransitionTo(target LeadStatus) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() || s == target {
		return false
	}
	if target.IsTerminal() {
		return true
	}
	return leadStage[target] > leadStage[s]
}

// Label returns the display label, e.g. "Qualified"
func (s LeadStatus) Label() string {
	return titleCaser.String(string(s))
}

// ParseLeadStatus parses a lead status
func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown lead status: "+s)
	}
	return status, nil
}

// LeadPriority ranks leads for follow-up
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "low"
	LeadPriorityMedium LeadPriority = "medium"
	LeadPriorityHigh   LeadPriority = "high"
)

// ParseLeadPriority parses a priority; empty input is medium
func ParseLeadPriority(s string) (LeadPriority, error) {
	p := LeadPriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return LeadPriorityMedium, nil
	case LeadPriorityLow, LeadPriorityMedium, LeadPriorityHigh:
		return p, nil
	}
	return "", shared.NewDomainError("INVALID_PRIORITY", "Unknown lead priority: "+s)
}

// Lead is a potential sale, optionally tied to a known customer
type Lead struct {
	shared.BaseAggregateRoot
	CustomerID     *uuid.UUID       `gorm:"type:uuid;index"`
	Source         string           `gorm:"type:varchar(100)"`
	Status         LeadStatus       `gorm:"type:varchar(20);not null;default:'new';index"`
	Priority       LeadPriority     `gorm:"type:varchar(10);not null;default:'medium'"`
	EstimatedValue *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// LeadDetails are the editable attributes of a lead
type LeadDetails struct {
	CustomerID     *uuid.UUID
	Source         string
	Priority       LeadPriority
	EstimatedValue *decimal.Decimal
	Notes          string
}

// NewLead creates a lead in the new status
func NewLead(details LeadDetails) (*Lead, error) {
	l := &Lead{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Status: LeadStatusNew}
	if err := l.Update(details); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces the lead's details. The status is changed through Transition.
func (l *Lead) Update(details LeadDetails) error {
	var errs shared.ValidationErrors
	source := strings.TrimSpace(details.Source)
	if len(source) > 100 {
		errs.Add("source", "Source cannot exceed 100 characters")
	}
	if details.EstimatedValue != nil && details.EstimatedValue.IsNegative() {
		errs.Add("estimated_value", "Estimated value cannot be negative")
	}
	if details.CustomerID != nil && *details.CustomerID == uuid.Nil {
		details.CustomerID = nil
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	priority := details.Priority
	if priority == "" {
		priority = LeadPriorityMedium
	}

	l.CustomerID = details.CustomerID
	l.Source = source
	l.Priority = priority
	l.EstimatedValue = details.EstimatedValue
	l.Notes = strings.TrimSpace(details.Notes)
	l.Touch()
	return nil
}

// Transition moves the lead to target
func (l *Lead) Transition(target LeadStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown lead status: "+string(target))
	}
	if !l.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change lead status from %s to %s", l.Status, target))
	}
	from := l.Status
	l.Status = target
	l.Touch()
	l.AddDomainEvent(NewLeadStatusChangedEvent(l, from))
	if target == LeadStatusConverted {
		l.AddDomainEvent(NewLeadConvertedEvent(l))
	}
	return nil
}

// Convert closes the lead as won
func (l *Lead) Convert() error {
	return l.Transition(LeadStatusConverted)
}

// AvailableTransitions lists the statuses the lead can move to next
func (l *Lead) AvailableTransitions() []LeadStatus {
	out := make([]LeadStatus, 0, len(LeadStatuses))
	for _, s := range LeadStatuses {
		if l.Status.CanTransitionTo(s) {
			out = append(out, s)
		}
	}
	return out
}
