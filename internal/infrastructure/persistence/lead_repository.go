package persistence

import (
	"context"

	"github.com/erp/tilestock/internal/domain/crm"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	var lead crm.Lead
	if err := findOne(r.db.WithContext(ctx), &lead, "id = ?", id); err != nil {
		return nil, err
	}
	return &lead, nil
}

// FindAll lists leads; Filters may hold "status", "priority" and "customer_id"
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&crm.Lead{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(source) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(crm.LeadStatus); ok {
		query = query.Where("status = ?", status)
	}
	if priority, ok := filter.Filters["priority"].(crm.LeadPriority); ok {
		query = query.Where("priority = ?", priority)
	}
	if customerID, ok := filter.Filters["customer_id"].(uuid.UUID); ok {
		query = query.Where("customer_id = ?", customerID)
	}

	query, total, err := paginate(query, filter, LeadSortFields, "created_at")
	if err != nil {
		return nil, 0, err
	}

	var leads []crm.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// ExistsForCustomer reports whether any lead references the customer
func (r *GormLeadRepository) ExistsForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &crm.Lead{}, "customer_id = ?", customerID)
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	return saveVersioned(r.db.WithContext(ctx), crm.Lead{}.TableName(), "Lead", lead)
}

// Delete deletes a lead by ID
func (r *GormLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &crm.Lead{}, id)
}

var _ crm.LeadRepository = (*GormLeadRepository)(nil)
