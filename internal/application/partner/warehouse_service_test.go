package partner

import (
	"context"
	"testing"

	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByCode(ctx context.Context, code string) (*partner.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, w *partner.Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockStockChecker struct {
	mock.Mock
}

func (m *MockStockChecker) ExistsForWarehouse(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestWarehouseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with upper-cased code", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := NewWarehouseService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "MAIN").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Warehouse")).Return(nil)

		resp, err := svc.Create(ctx, CreateWarehouseRequest{Code: "main", Name: "Main"})
		require.NoError(t, err)
		assert.Equal(t, "MAIN", resp.Code)
		assert.True(t, resp.IsActive)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := NewWarehouseService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "MAIN").Return(true, nil)

		_, err := svc.Create(ctx, CreateWarehouseRequest{Code: "MAIN", Name: "Main"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestWarehouseService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseRepository)
	svc := NewWarehouseService(repo, zap.NewNop())
	w, err := partner.NewWarehouse("MAIN", "Main", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, w.ID).Return(w, nil)
	repo.On("Save", ctx, w).Return(nil)

	inactive := false
	resp, err := svc.Update(ctx, w.ID, UpdateWarehouseRequest{Name: "Main yard", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Main yard", resp.Name)
	assert.False(t, resp.IsActive)

	resp, err = svc.Update(ctx, w.ID, UpdateWarehouseRequest{Name: "Main yard"})
	require.NoError(t, err)
	assert.False(t, resp.IsActive, "omitted is_active keeps the current value")
}

func TestWarehouseService_Delete(t *testing.T) {
	ctx := context.Background()
	w, err := partner.NewWarehouse("MAIN", "Main", "")
	require.NoError(t, err)

	repo := new(MockWarehouseRepository)
	stock := new(MockStockChecker)
	svc := NewWarehouseService(repo, zap.NewNop(), stock)
	repo.On("FindByID", ctx, w.ID).Return(w, nil)
	stock.On("ExistsForWarehouse", ctx, w.ID).Return(true, nil).Once()

	err = svc.Delete(ctx, w.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WAREHOUSE_IN_USE", domainErr.Code)

	stock.On("ExistsForWarehouse", ctx, w.ID).Return(false, nil).Once()
	repo.On("Delete", ctx, w.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, w.ID))
	repo.AssertExpectations(t)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, nil, zap.NewNop())

	repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
	created, err := svc.Create(ctx, CustomerRequest{ContactRequest{Name: "Acme", Email: "a@acme.test"}})
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)

	c, err := partner.NewCustomer(partner.ContactInfo{Name: "Acme"})
	require.NoError(t, err)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "acme" && f.Page == 2
	})).Return([]partner.Customer{*c}, int64(21), nil)

	page, err := svc.List(ctx, ListFilter{Search: "acme", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Acme", page.Items[0].Name)
}

type MockCustomerReferences struct {
	mock.Mock
}

func (m *MockCustomerReferences) ExistsForCustomer(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	c, err := partner.NewCustomer(partner.ContactInfo{Name: "Acme"})
	require.NoError(t, err)

	repo := new(MockCustomerRepository)
	orders := new(MockCustomerReferences)
	leads := new(MockCustomerReferences)
	svc := NewCustomerService(repo, orders, zap.NewNop())
	svc.SetLeadChecker(leads)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	orders.On("ExistsForCustomer", ctx, c.ID).Return(false, nil)
	leads.On("ExistsForCustomer", ctx, c.ID).Return(true, nil).Once()

	err = svc.Delete(ctx, c.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_IN_USE", domainErr.Code)
	assert.Equal(t, "Customer has leads and cannot be deleted", domainErr.Message)
	repo.AssertNotCalled(t, "Delete", ctx, c.ID)

	leads.On("ExistsForCustomer", ctx, c.ID).Return(false, nil).Once()
	repo.On("Delete", ctx, c.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, c.ID))
}
