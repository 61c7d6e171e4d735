package crm_test

import (
	"context"
	"testing"

	crmapp "github.com/erp/tilestock/internal/application/crm"
	"github.com/erp/tilestock/internal/domain/crm"
	"github.com/erp/tilestock/internal/domain/partner"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/erp/tilestock/internal/infrastructure/persistence"
	"github.com/erp/tilestock/internal/infrastructure/persistence/sqlitetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type eventSink struct {
	events []shared.DomainEvent
}

func (s *eventSink) Publish(_ context.Context, events ...shared.DomainEvent) error {
	s.events = append(s.events, events...)
	return nil
}

type fixture struct {
	service   *crmapp.LeadService
	customer  *partner.Customer
	published *eventSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitetest.Open(t)
	customers := persistence.NewGormCustomerRepository(db)
	customer, err := partner.NewCustomer(partner.ContactInfo{Name: "Stone & Co"})
	require.NoError(t, err)
	require.NoError(t, customers.Save(context.Background(), customer))

	f := &fixture{
		service:   crmapp.NewLeadService(persistence.NewGormLeadRepository(db), customers, zap.NewNop()),
		customer:  customer,
		published: &eventSink{},
	}
	f.service.SetEventPublisher(f.published)
	return f
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestLeadService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("defaults to new and medium", func(t *testing.T) {
		lead, err := f.service.Create(ctx, crmapp.LeadRequest{
			CustomerID:     &f.customer.ID,
			Source:         "Showroom",
			EstimatedValue: decPtr("48000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new", lead.Status)
		assert.Equal(t, "New", lead.StatusLabel)
		assert.Equal(t, "medium", lead.Priority)
		assert.Equal(t, []string{"contacted", "qualified", "converted", "lost"}, lead.Transitions)
	})

	t.Run("status in the request is ignored on create", func(t *testing.T) {
		lead, err := f.service.Create(ctx, crmapp.LeadRequest{Source: "Web", Status: "converted"})
		require.NoError(t, err)
		assert.Equal(t, "new", lead.Status)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.service.Create(ctx, crmapp.LeadRequest{CustomerID: &missing, Priority: "urgent"})
		var verrs shared.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := map[string]string{}
		for _, e := range verrs {
			fields[e.Field] = e.Message
		}
		assert.Equal(t, "Customer not found", fields["customer_id"])
		assert.Contains(t, fields, "priority")
	})
}

func TestLeadService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lead, err := f.service.Create(ctx, crmapp.LeadRequest{Source: "Referral", Priority: "high", EstimatedValue: decPtr("90000")})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, lead.ID, crmapp.LeadRequest{
		Source: "Referral", Priority: "high", EstimatedValue: decPtr("95000"), Status: "contacted", Notes: "site visit booked",
	})
	require.NoError(t, err)
	assert.Equal(t, "contacted", updated.Status)
	assert.Equal(t, "site visit booked", updated.Notes)
	assert.Equal(t, 2, updated.Version)

	_, err = f.service.Update(ctx, lead.ID, crmapp.LeadRequest{Status: "new"})
	requireCode(t, err, "INVALID_STATE")
	_, err = f.service.Update(ctx, lead.ID, crmapp.LeadRequest{Status: "won"})
	requireCode(t, err, "INVALID_STATUS")

	converted, err := f.service.Convert(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "converted", converted.Status)
	assert.Empty(t, converted.Transitions)

	_, err = f.service.Convert(ctx, lead.ID)
	requireCode(t, err, "INVALID_STATE")

	var types []string
	for _, e := range f.published.events {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		crm.EventTypeLeadStatusChanged,
		crm.EventTypeLeadStatusChanged,
		crm.EventTypeLeadConverted,
	}, types)
	won := f.published.events[2].(*crm.LeadConvertedEvent)
	assert.True(t, decimal.RequireFromString("95000").Equal(*won.EstimatedValue))
}

func TestLeadService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, req := range []crmapp.LeadRequest{
		{Source: "Web", Priority: "low"},
		{Source: "Fair", Priority: "high", CustomerID: &f.customer.ID},
		{Source: "Phone", Priority: "high"},
	} {
		_, err := f.service.Create(ctx, req)
		require.NoError(t, err)
	}

	page, err := f.service.List(ctx, crmapp.ListFilter{Priority: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = f.service.List(ctx, crmapp.ListFilter{CustomerID: f.customer.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fair", page.Items[0].Source)

	page, err = f.service.List(ctx, crmapp.ListFilter{Status: "new", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	_, err = f.service.List(ctx, crmapp.ListFilter{Status: "won"})
	requireCode(t, err, "INVALID_STATUS")
	_, err = f.service.List(ctx, crmapp.ListFilter{CustomerID: "nobody"})
	var verrs shared.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "customer_id", verrs[0].Field)

	id := page.Items[0].ID
	require.NoError(t, f.service.Delete(ctx, id))
	_, err = f.service.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.service.Delete(ctx, id), shared.ErrNotFound)
}
