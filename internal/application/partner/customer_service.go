package partner

import (
	"context"

	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerReferenceChecker reports whether orders reference a customer
type CustomerReferenceChecker interface {
	ExistsForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
}

// CustomerService handles customer operations
type CustomerService struct {
	repo   partner.CustomerRepository
	orders CustomerReferenceChecker
	leads  CustomerReferenceChecker
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo partner.CustomerRepository, orders CustomerReferenceChecker, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, orders: orders, logger: logger}
}

// SetLeadChecker makes Delete refuse customers that leads still point at
func (s *CustomerService) SetLeadChecker(leads CustomerReferenceChecker) {
	s.leads = leads
}

// List lists customers
func (s *CustomerService) List(ctx context.Context, f ListFilter) (shared.Paginated[CustomerResponse], error) {
	filter := f.toFilter()
	customers, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	return shared.NewPaginated(mapAll(customers, ToCustomerResponse), total, filter.Page, filter.PageSize), nil
}

// GetByID returns a customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Create creates a customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	c, err := partner.NewCustomer(req.info())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("customer_id", c.ID.String()))
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.info()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete deletes a customer without orders
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	for _, ref := range []struct {
		checker CustomerReferenceChecker
		what    string
	}{{s.orders, "orders"}, {s.leads, "leads"}} {
		if ref.checker == nil {
			continue
		}
		inUse, err := ref.checker.ExistsForCustomer(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("CUSTOMER_IN_USE", "Customer has "+ref.what+" and cannot be deleted")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}
