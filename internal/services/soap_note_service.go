package services

import (
	"context"
	"fmt"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// SOAPNoteService handles clinical session notes. Notes are PHI, so reads
// are audit-logged, and a locked note can never be edited again.
type SOAPNoteService struct {
	repo            repository.SOAPNoteRepository
	appointmentRepo repository.AppointmentRepository
	auditSvc        *AuditService
}

func NewSOAPNoteService(
	repo repository.SOAPNoteRepository,
	appointmentRepo repository.AppointmentRepository,
	auditSvc *AuditService,
) *SOAPNoteService {
	return &SOAPNoteService{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		auditSvc:        auditSvc,
	}
}

func (s *SOAPNoteService) FindByID(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.SOAPNote, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.auditSvc.LogPHIAccess(ctx, actorID, "SOAPNote", note.ID,
		fmt.Sprintf("Viewed session note for appointment #%d", note.AppointmentID), ip, userAgent)

	return note, nil
}

func (s *SOAPNoteService) FindByAppointment(ctx context.Context, appointmentID uint, actorID uint, ip, userAgent string) (*models.SOAPNote, error) {
	note, err := s.repo.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, ErrNotFound
	}

	s.auditSvc.LogPHIAccess(ctx, actorID, "SOAPNote", note.ID,
		fmt.Sprintf("Viewed session note for appointment #%d", note.AppointmentID), ip, userAgent)

	return note, nil
}

// Create writes a note against a completed appointment. One note per
// appointment; a second create for the same appointment is rejected.
func (s *SOAPNoteService) Create(ctx context.Context, note *models.SOAPNote, actorID uint, ip, userAgent string) error {
	appointment, err := s.appointmentRepo.FindByID(ctx, note.AppointmentID)
	if err != nil {
		return ErrNotFound
	}
	if appointment.Status != models.AppointmentStatusCompleted {
		return ErrInvalidState
	}
	if existing, err := s.repo.FindByAppointment(ctx, note.AppointmentID); err == nil && existing != nil {
		return ErrDuplicate
	}

	note.AuthorID = actorID
	if err := s.repo.Create(ctx, note); err != nil {
		return err
	}

	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "SOAPNote", note.ID,
		fmt.Sprintf("Session note created for appointment #%d", note.AppointmentID), ip, userAgent)
}

// Update edits an unlocked note. Only the author may edit.
func (s *SOAPNoteService) Update(ctx context.Context, id uint, subjective, objective, assessment, plan string, actorID uint, ip, userAgent string) (*models.SOAPNote, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if note.IsLocked() {
		return nil, ErrNoteLocked
	}
	if note.AuthorID != actorID {
		return nil, ErrUnauthorized
	}

	note.Subjective = subjective
	note.Objective = objective
	note.Assessment = assessment
	note.Plan = plan
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "SOAPNote", note.ID,
		fmt.Sprintf("Session note updated for appointment #%d", note.AppointmentID), ip, userAgent)

	return note, nil
}

// Lock signs off the note, freezing it permanently
func (s *SOAPNoteService) Lock(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.SOAPNote, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if note.IsLocked() {
		return nil, ErrNoteLocked
	}
	if note.AuthorID != actorID {
		return nil, ErrUnauthorized
	}

	note.Lock()
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionLock, "SOAPNote", note.ID,
		fmt.Sprintf("Session note locked for appointment #%d", note.AppointmentID), ip, userAgent)

	return note, nil
}
