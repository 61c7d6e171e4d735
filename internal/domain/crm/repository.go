package crm

import (
	"context"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadRepository persists leads
type LeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	// FindAll lists leads; Filters may hold "status", "priority" and
	// "customer_id", Search matches source or notes
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, int64, error)
	Save(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
}
