package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"gorm.io/gorm"
)

// Mock AppointmentRepository
type mockAppointmentRepository struct {
	repository.AppointmentRepository
	mockFindByTherapistAndDay func(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error)
	mockFindByIDs             func(ctx context.Context, ids []uint) ([]models.Appointment, error)
	mockCreate                func(ctx context.Context, appointment *models.Appointment) error
}

func (m *mockAppointmentRepository) FindByTherapistAndDay(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error) {
	if m.mockFindByTherapistAndDay != nil {
		return m.mockFindByTherapistAndDay(ctx, therapistID, day)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, appointment)
	}
	return nil
}

// Mock ClientRepository
type mockClientRepository struct {
	repository.ClientRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Client, error)
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.Client{ID: id}, nil
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.User{ID: id, Role: models.RoleTherapist}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.mockFindByEmail != nil {
		return m.mockFindByEmail(ctx, email)
	}
	return nil, nil
}

func TestBookRejectsScheduleConflict(t *testing.T) {
	slot := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	apptRepo := &mockAppointmentRepository{
		mockFindByTherapistAndDay: func(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error) {
			return []models.Appointment{
				{TherapistID: therapistID, ScheduledAt: slot, DurationMinutes: 60, Status: models.AppointmentStatusScheduled},
			}, nil
		},
	}
	service := NewAppointmentService(apptRepo, &mockClientRepository{}, &mockUserRepository{}, nil, nil, nil, nil)

	_, err := service.Book(context.Background(), BookAppointmentInput{
		ClientID:    1,
		TherapistID: 2,
		ServiceType: models.ServiceDeepTissue,
		ScheduledAt: slot.Add(30 * time.Minute),
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestBookIgnoresCancelledAppointments(t *testing.T) {
	slot := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	createErr := errors.New("create reached")
	apptRepo := &mockAppointmentRepository{
		mockFindByTherapistAndDay: func(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error) {
			return []models.Appointment{
				{TherapistID: therapistID, ScheduledAt: slot, DurationMinutes: 60, Status: models.AppointmentStatusCancelled},
			}, nil
		},
		// Stop at the persistence step; this test only cares that the
		// cancelled appointment does not block the slot.
		mockCreate: func(ctx context.Context, appointment *models.Appointment) error {
			return createErr
		},
	}
	service := NewAppointmentService(apptRepo, &mockClientRepository{}, &mockUserRepository{}, nil, nil, nil, nil)

	_, err := service.Book(context.Background(), BookAppointmentInput{
		ClientID:    1,
		TherapistID: 2,
		ServiceType: models.ServiceDeepTissue,
		ScheduledAt: slot.Add(30 * time.Minute),
	}, 1, "", "")

	assert.ErrorIs(t, err, createErr)
	assert.NotErrorIs(t, err, ErrScheduleConflict)
}

func TestBookClientNotFound(t *testing.T) {
	clientRepo := &mockClientRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAppointmentService(&mockAppointmentRepository{}, clientRepo, &mockUserRepository{}, nil, nil, nil, nil)

	_, err := service.Book(context.Background(), BookAppointmentInput{
		ClientID:    999,
		TherapistID: 2,
		ServiceType: models.ServiceSwedish,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookRequiresTherapistRole(t *testing.T) {
	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleReceptionist}, nil
		},
	}
	service := NewAppointmentService(&mockAppointmentRepository{}, &mockClientRepository{}, userRepo, nil, nil, nil, nil)

	_, err := service.Book(context.Background(), BookAppointmentInput{
		ClientID:    1,
		TherapistID: 3,
		ServiceType: models.ServiceSwedish,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}, 1, "", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookUnknownServiceType(t *testing.T) {
	service := NewAppointmentService(&mockAppointmentRepository{}, &mockClientRepository{}, &mockUserRepository{}, nil, nil, nil, nil)

	_, err := service.Book(context.Background(), BookAppointmentInput{
		ClientID:    1,
		TherapistID: 2,
		ServiceType: "crystal_healing",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}, 1, "", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service type")
}
