package services

import (
	"context"
	"fmt"
	"time"

	"github.com/serenispa/serenity-api/internal/jobs"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// BookAppointmentInput describes a booking request. Price and duration
// default from the service catalog when left zero.
type BookAppointmentInput struct {
	ClientID        uint
	TherapistID     uint
	ServiceType     string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

type AppointmentService struct {
	repo            repository.AppointmentRepository
	clientRepo      repository.ClientRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *AppointmentService {
	return &AppointmentService{
		repo:            repo,
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *AppointmentService) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return appointment, nil
}

func (s *AppointmentService) FindByClient(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	return s.repo.FindByClient(ctx, clientID)
}

func (s *AppointmentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Appointment, int64, error) {
	return s.repo.List(ctx, query)
}

// Book schedules an appointment, rejecting double-bookings against the
// therapist's existing schedule for that day.
func (s *AppointmentService) Book(ctx context.Context, input BookAppointmentInput, actorID uint, ip, userAgent string) (*models.Appointment, error) {
	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		return nil, ErrNotFound
	}
	therapist, err := s.userRepo.FindByID(ctx, input.TherapistID)
	if err != nil || !therapist.IsTherapist() {
		return nil, ErrNotFound
	}

	svc, ok := models.LookupService(input.ServiceType)
	if !ok {
		return nil, fmt.Errorf("unknown service type: %s", input.ServiceType)
	}

	duration := input.DurationMinutes
	if duration <= 0 {
		duration = svc.DurationMinutes
	}

	appointment := &models.Appointment{
		ClientID:        input.ClientID,
		TherapistID:     input.TherapistID,
		ServiceType:     input.ServiceType,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: duration,
		Price:           svc.Price,
		Status:          models.AppointmentStatusScheduled,
		Notes:           input.Notes,
	}

	sameDay, err := s.repo.FindByTherapistAndDay(ctx, input.TherapistID, input.ScheduledAt)
	if err != nil {
		return nil, err
	}
	for i := range sameDay {
		other := &sameDay[i]
		if other.Status != models.AppointmentStatusScheduled {
			continue
		}
		if appointment.Overlaps(other) {
			return nil, ErrScheduleConflict
		}
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, appointment.TherapistID,
			"Appointment booked",
			fmt.Sprintf("%s on %s", models.ServiceDisplayName(appointment.ServiceType), appointment.ScheduledAt.Format("Jan 2 at 3:04 PM")),
			models.NotificationTypeAppointmentBooked)
	})

	s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "Appointment", appointment.ID,
		fmt.Sprintf("Appointment booked for client #%d with therapist #%d", appointment.ClientID, appointment.TherapistID),
		ip, userAgent)

	return appointment, nil
}

// Complete marks a scheduled appointment as done, making it billable
func (s *AppointmentService) Complete(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !appointment.MayComplete() {
		return nil, ErrInvalidState
	}

	appointment.Status = models.AppointmentStatusCompleted
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Appointment", id, "Appointment completed", ip, userAgent)
	return appointment, nil
}

// Cancel cancels a scheduled appointment
func (s *AppointmentService) Cancel(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !appointment.MayCancel() {
		return nil, ErrInvalidState
	}

	appointment.Status = models.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Appointment", id, "Appointment cancelled", ip, userAgent)
	return appointment, nil
}

// MarkNoShow records that the client did not arrive
func (s *AppointmentService) MarkNoShow(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if appointment.Status != models.AppointmentStatusScheduled {
		return nil, ErrInvalidState
	}

	appointment.Status = models.AppointmentStatusNoShow
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx, "No-show",
			fmt.Sprintf("Client #%d missed appointment #%d", appointment.ClientID, appointment.ID),
			models.NotificationTypeAppointmentNoShow)
	})

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Appointment", id, "Appointment marked no-show", ip, userAgent)
	return appointment, nil
}

// SendReminders emails clients with appointments in the next day.
// Called from the scheduled job; returns how many reminders were queued.
func (s *AppointmentService) SendReminders(ctx context.Context) (int, error) {
	start := time.Now()
	end := start.Add(24 * time.Hour)

	appointments, err := s.repo.FindScheduledBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range appointments {
		appointment := appointments[i]
		client, err := s.clientRepo.FindByID(ctx, appointment.ClientID)
		if err != nil || client.Email == "" {
			continue
		}
		c := client
		a := appointment
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendAppointmentReminder(ctx, c, &a)
		})
		sent++
	}
	return sent, nil
}
