package repository

import (
	"context"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
)

// SOAPNoteRepository defines the interface for clinical note access
type SOAPNoteRepository interface {
	FindByID(ctx context.Context, id uint) (*models.SOAPNote, error)
	FindByAppointment(ctx context.Context, appointmentID uint) (*models.SOAPNote, error)
	FindByAuthor(ctx context.Context, authorID uint) ([]models.SOAPNote, error)
	Create(ctx context.Context, note *models.SOAPNote) error
	Update(ctx context.Context, note *models.SOAPNote) error
}

type soapNoteRepository struct {
	db *gorm.DB
}

// NewSOAPNoteRepository creates a new SOAP note repository
func NewSOAPNoteRepository(db *gorm.DB) SOAPNoteRepository {
	return &soapNoteRepository{db: db}
}

func (r *soapNoteRepository) FindByID(ctx context.Context, id uint) (*models.SOAPNote, error) {
	var note models.SOAPNote
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *soapNoteRepository) FindByAppointment(ctx context.Context, appointmentID uint) (*models.SOAPNote, error) {
	var note models.SOAPNote
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("appointment_id = ?", appointmentID).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *soapNoteRepository) FindByAuthor(ctx context.Context, authorID uint) ([]models.SOAPNote, error) {
	var notes []models.SOAPNote
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *soapNoteRepository) Create(ctx context.Context, note *models.SOAPNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *soapNoteRepository) Update(ctx context.Context, note *models.SOAPNote) error {
	return r.db.WithContext(ctx).Omit("Appointment", "Author").Save(note).Error
}
