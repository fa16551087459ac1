package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/models"
	"gorm.io/gorm"
)

type invoiceCreateFixture struct {
	service         *InvoiceService
	appointmentRepo *mockAppointmentRepository
	clientRepo      *mockClientRepository
}

func newInvoiceCreateFixture() *invoiceCreateFixture {
	f := &invoiceCreateFixture{
		appointmentRepo: &mockAppointmentRepository{},
		clientRepo:      &mockClientRepository{},
	}
	// The validation paths under test return before the transaction opens
	f.service = NewInvoiceService(nil, &mockInvoiceRepository{}, f.appointmentRepo, f.clientRepo, nil)
	return f
}

func (m *mockAppointmentRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Appointment, error) {
	if m.mockFindByIDs != nil {
		return m.mockFindByIDs(ctx, ids)
	}
	return nil, nil
}

func TestCreateInvoiceClientNotFound(t *testing.T) {
	f := newInvoiceCreateFixture()
	f.clientRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Client, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:   999,
		ExtraItems: []LineItemInput{{Description: "Gift card", UnitPrice: 50.00}},
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvoiceRejectsNegativeRates(t *testing.T) {
	f := newInvoiceCreateFixture()

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:   1,
		TaxRate:    -0.08,
		ExtraItems: []LineItemInput{{Description: "Gift card", UnitPrice: 50.00}},
	}, 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:   1,
		Discount:   -10.00,
		ExtraItems: []LineItemInput{{Description: "Gift card", UnitPrice: 50.00}},
	}, 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateInvoiceRequiresLineItems(t *testing.T) {
	f := newInvoiceCreateFixture()

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{ClientID: 1}, 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one line item")
}

func TestCreateInvoiceRejectsUnbillableAppointments(t *testing.T) {
	f := newInvoiceCreateFixture()
	f.appointmentRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: 10, ClientID: 1, ServiceType: models.ServiceSwedish, Status: models.AppointmentStatusScheduled},
		}, nil
	}

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:       1,
		AppointmentIDs: []uint{10},
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCreateInvoiceRejectsAlreadyInvoicedAppointments(t *testing.T) {
	f := newInvoiceCreateFixture()
	f.appointmentRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: 10, ClientID: 1, ServiceType: models.ServiceSwedish, Status: models.AppointmentStatusCompleted, Invoiced: true},
		}, nil
	}

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:       1,
		AppointmentIDs: []uint{10},
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCreateInvoiceRejectsOtherClientsAppointments(t *testing.T) {
	f := newInvoiceCreateFixture()
	f.appointmentRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: 10, ClientID: 2, ServiceType: models.ServiceSwedish, Status: models.AppointmentStatusCompleted},
		}, nil
	}

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:       1,
		AppointmentIDs: []uint{10},
	}, 1, "", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "different client")
}

func TestCreateInvoiceMissingAppointment(t *testing.T) {
	f := newInvoiceCreateFixture()
	f.appointmentRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: 10, ClientID: 1, ServiceType: models.ServiceSwedish, Status: models.AppointmentStatusCompleted},
		}, nil
	}

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:       1,
		AppointmentIDs: []uint{10, 11},
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvoiceRejectsNegativeExtraItemPrice(t *testing.T) {
	f := newInvoiceCreateFixture()

	_, err := f.service.Create(context.Background(), CreateInvoiceInput{
		ClientID:   1,
		ExtraItems: []LineItemInput{{Description: "Adjustment", UnitPrice: -5.00}},
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrInvalidAmount)
}
