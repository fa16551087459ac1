package repository

import (
	"context"
	"time"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
)

// AppointmentRepository defines the interface for appointment data access
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Appointment, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Appointment, error)
	FindByTherapistAndDay(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error)
	FindScheduledBetween(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Update(ctx context.Context, appointment *models.Appointment) error
	UpdateTx(ctx context.Context, tx *gorm.DB, appointment *models.Appointment) error
	List(ctx context.Context, query *ListQuery) ([]models.Appointment, int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Therapist").
		Preload("SOAPNote").
		First(&appointment, id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Therapist").
		Where("client_id = ?", clientID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) FindByTherapistAndDay(ctx context.Context, therapistID uint, day time.Time) ([]models.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("therapist_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status = ?",
			therapistID, dayStart, dayEnd, models.AppointmentStatusScheduled).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) FindScheduledBetween(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Therapist").
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			models.AppointmentStatusScheduled, start, end).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Omit("Client", "Therapist", "SOAPNote").Save(appointment).Error
}

func (r *appointmentRepository) UpdateTx(ctx context.Context, tx *gorm.DB, appointment *models.Appointment) error {
	return tx.WithContext(ctx).Omit("Client", "Therapist", "SOAPNote").Save(appointment).Error
}

func (r *appointmentRepository) List(ctx context.Context, query *ListQuery) ([]models.Appointment, int64, error) {
	var appointments []models.Appointment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Appointment{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["therapist_id"] != "" {
		db = db.Where("therapist_id = ?", query.Filters["therapist_id"])
	}
	if query.Filters["service_type"] != "" {
		db = db.Where("service_type = ?", query.Filters["service_type"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("scheduled_at >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("scheduled_at <= ?", query.Filters["end_date"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("scheduled_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Preload("Therapist").Find(&appointments).Error
	return appointments, total, err
}
