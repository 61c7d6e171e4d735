package partner

import (
	"context"

	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierReferenceChecker reports whether purchase orders reference a supplier
type SupplierReferenceChecker interface {
	ExistsForSupplier(ctx context.Context, supplierID uuid.UUID) (bool, error)
}

// SupplierService handles supplier operations
type SupplierService struct {
	repo   partner.SupplierRepository
	orders SupplierReferenceChecker
	logger *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repo partner.SupplierRepository, orders SupplierReferenceChecker, logger *zap.Logger) *SupplierService {
	return &SupplierService{repo: repo, orders: orders, logger: logger}
}

// List lists suppliers
func (s *SupplierService) List(ctx context.Context, f ListFilter) (shared.Paginated[SupplierResponse], error) {
	filter := f.toFilter()
	suppliers, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	return shared.NewPaginated(mapAll(suppliers, ToSupplierResponse), total, filter.Page, filter.PageSize), nil
}

// GetByID returns a supplier
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// Create creates a supplier
func (s *SupplierService) Create(ctx context.Context, req SupplierRequest) (*SupplierResponse, error) {
	sup, err := partner.NewSupplier(req.info(), req.ContactPerson)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created", zap.String("supplier_id", sup.ID.String()))
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sup.Update(req.info(), req.ContactPerson); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sup); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// Delete deletes a supplier without purchase orders
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if s.orders != nil {
		inUse, err := s.orders.ExistsForSupplier(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("SUPPLIER_IN_USE", "Supplier has purchase orders and cannot be deleted")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("supplier deleted", zap.String("supplier_id", id.String()))
	return nil
}
