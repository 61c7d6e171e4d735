package crm

import (
	"context"
	"errors"

	"github.com/erp/tilestock/internal/domain/crm"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadService handles lead operations
type LeadService struct {
	repo           crm.LeadRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(repo crm.LeadRepository, customerRepo partner.CustomerRepository, logger *zap.Logger) *LeadService {
	return &LeadService{repo: repo, customerRepo: customerRepo, logger: logger}
}

// SetEventPublisher sets the publisher for lead events
func (s *LeadService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List lists leads
func (s *LeadService) List(ctx context.Context, f ListFilter) (shared.Paginated[LeadResponse], error) {
	filter, err := f.toFilter()
	if err != nil {
		return shared.Paginated[LeadResponse]{}, err
	}
	leads, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[LeadResponse]{}, err
	}
	items := make([]LeadResponse, len(leads))
	for i := range leads {
		items[i] = ToLeadResponse(&leads[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a lead
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(l)
	return &resp, nil
}

// Create creates a lead in the new status
func (s *LeadService) Create(ctx context.Context, req LeadRequest) (*LeadResponse, error) {
	details, err := s.details(ctx, req)
	if err != nil {
		return nil, err
	}
	l, err := crm.NewLead(details)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("lead created", zap.String("lead_id", l.ID.String()), zap.String("priority", string(l.Priority)))
	resp := ToLeadResponse(l)
	return &resp, nil
}

// Update replaces a lead's details and, when Status differs from the
// current one, moves the lead there
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req LeadRequest) (*LeadResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.details(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := l.Update(details); err != nil {
		return nil, err
	}
	if req.Status != "" {
		target, err := crm.ParseLeadStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if target != l.Status {
			if err := l.Transition(target); err != nil {
				return nil, err
			}
		}
	}
	return s.save(ctx, l, "lead updated")
}

// Convert closes the lead as won
func (s *LeadService) Convert(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.Convert(); err != nil {
		return nil, err
	}
	return s.save(ctx, l, "lead converted")
}

// Delete deletes a lead
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("lead deleted", zap.String("lead_id", id.String()))
	return nil
}

func (s *LeadService) save(ctx context.Context, l *crm.Lead, msg string) (*LeadResponse, error) {
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info(msg, zap.String("lead_id", l.ID.String()), zap.String("status", string(l.Status)))

	if events := l.PullDomainEvents(); s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish lead events", zap.Error(err))
		}
	}
	resp := ToLeadResponse(l)
	return &resp, nil
}

// details checks the request fields that need the database or parsing
func (s *LeadService) details(ctx context.Context, req LeadRequest) (crm.LeadDetails, error) {
	var errs shared.ValidationErrors
	priority, err := crm.ParseLeadPriority(req.Priority)
	if err != nil {
		errs.Add("priority", "Priority must be 'low', 'medium' or 'high'")
	}
	if req.CustomerID != nil && *req.CustomerID != uuid.Nil {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return crm.LeadDetails{}, err
			}
			errs.Add("customer_id", "Customer not found")
		}
	}
	if err := errs.OrNil(); err != nil {
		return crm.LeadDetails{}, err
	}
	return crm.LeadDetails{
		CustomerID:     req.CustomerID,
		Source:         req.Source,
		Priority:       priority,
		EstimatedValue: req.EstimatedValue,
		Notes:          req.Notes,
	}, nil
}
