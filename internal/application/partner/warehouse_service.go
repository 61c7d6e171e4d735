package partner

import (
	"context"
	"strings"

	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarehouseReferenceChecker reports whether stock or orders refer to a warehouse
type WarehouseReferenceChecker interface {
	ExistsForWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error)
}

// WarehouseService handles warehouse operations
type WarehouseService struct {
	repo       partner.WarehouseRepository
	references []WarehouseReferenceChecker
	logger     *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(repo partner.WarehouseRepository, logger *zap.Logger, references ...WarehouseReferenceChecker) *WarehouseService {
	return &WarehouseService{repo: repo, references: references, logger: logger}
}

// List lists warehouses
func (s *WarehouseService) List(ctx context.Context, f ListFilter) (shared.Paginated[WarehouseResponse], error) {
	filter := f.toFilter()
	warehouses, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[WarehouseResponse]{}, err
	}
	return shared.NewPaginated(mapAll(warehouses, ToWarehouseResponse), total, filter.Page, filter.PageSize), nil
}

// GetByID returns a warehouse
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Create creates a warehouse with a unique code
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.repo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}
	w, err := partner.NewWarehouse(req.Code, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("warehouse created", zap.String("warehouse_id", w.ID.String()), zap.String("code", w.Code))
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := w.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := w.Update(req.Name, req.Address, active); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Delete deletes a warehouse that no stock record or order refers to
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	for _, ref := range s.references {
		inUse, err := ref.ExistsForWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("WAREHOUSE_IN_USE", "Warehouse has stock or orders and cannot be deleted")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("warehouse deleted", zap.String("warehouse_id", id.String()))
	return nil
}
