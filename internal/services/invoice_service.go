package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// LineItemInput is one manual entry for an invoice being created
type LineItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
}

// CreateInvoiceInput describes an invoice to create. AppointmentIDs pull
// billable appointments into line items priced from the service catalog;
// ExtraItems covers product sales and other manual charges.
type CreateInvoiceInput struct {
	ClientID       uint
	AppointmentIDs []uint
	ExtraItems     []LineItemInput
	TaxRate        float64
	Discount       float64
	Notes          *string
}

type InvoiceService struct {
	db              *gorm.DB
	repo            repository.InvoiceRepository
	appointmentRepo repository.AppointmentRepository
	clientRepo      repository.ClientRepository
	auditSvc        *AuditService
}

func NewInvoiceService(
	db *gorm.DB,
	repo repository.InvoiceRepository,
	appointmentRepo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	auditSvc *AuditService,
) *InvoiceService {
	return &InvoiceService{
		db:              db,
		repo:            repo,
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		auditSvc:        auditSvc,
	}
}

func (s *InvoiceService) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

func (s *InvoiceService) FindByClient(ctx context.Context, clientID uint) ([]models.Invoice, error) {
	return s.repo.FindByClient(ctx, clientID)
}

func (s *InvoiceService) List(ctx context.Context, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, query)
}

// Create builds an invoice from billable appointments and manual line items.
// Appointments already invoiced or not yet completed are rejected. The new
// invoice always starts unpaid regardless of its total.
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	if _, err := s.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		return nil, ErrNotFound
	}
	if input.TaxRate < 0 || input.Discount < 0 {
		return nil, ErrInvalidAmount
	}
	if len(input.AppointmentIDs) == 0 && len(input.ExtraItems) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line item")
	}

	var appointments []models.Appointment
	if len(input.AppointmentIDs) > 0 {
		found, err := s.appointmentRepo.FindByIDs(ctx, input.AppointmentIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(input.AppointmentIDs) {
			return nil, ErrNotFound
		}
		for i := range found {
			appt := &found[i]
			if appt.ClientID != input.ClientID {
				return nil, fmt.Errorf("appointment #%d belongs to a different client", appt.ID)
			}
			if !appt.IsBillable() {
				return nil, ErrInvalidState
			}
		}
		appointments = found
	}

	invoice := &models.Invoice{
		ClientID: input.ClientID,
		TaxRate:  input.TaxRate,
		Discount: input.Discount,
		Notes:    input.Notes,
		Status:   models.InvoiceStatusUnpaid,
		IssuedAt: time.Now(),
	}

	for i := range appointments {
		appt := &appointments[i]
		svc, ok := models.LookupService(appt.ServiceType)
		if !ok {
			return nil, fmt.Errorf("unknown service type: %s", appt.ServiceType)
		}
		apptID := appt.ID
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			AppointmentID: &apptID,
			Description:   svc.Name,
			Quantity:      1,
			UnitPrice:     svc.Price,
		})
	}
	for _, item := range input.ExtraItems {
		if item.UnitPrice < 0 {
			return nil, ErrInvalidAmount
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   item.UnitPrice,
		})
	}

	invoice.RecalculateTotals()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for i := range appointments {
			appointments[i].Invoiced = true
			if err := s.appointmentRepo.UpdateTx(ctx, tx, &appointments[i]); err != nil {
				return fmt.Errorf("mark appointment invoiced: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "Invoice", invoice.ID,
		fmt.Sprintf("Invoice created for client #%d, total %.2f", invoice.ClientID, invoice.Total),
		ip, userAgent)

	return invoice, nil
}

// MarkOverdueInvoices flags unpaid invoices older than the grace period.
// Called from the scheduled job; returns how many invoices were flagged.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, gracePeriod time.Duration, notifySvc *NotificationService) (int, error) {
	cutoff := time.Now().Add(-gracePeriod)
	invoices, err := s.repo.FindUnpaidOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	flagged := 0
	now := time.Now()
	for i := range invoices {
		invoice := &invoices[i]
		if invoice.OverdueAt != nil {
			continue
		}
		invoice.OverdueAt = &now
		if err := s.repo.Update(ctx, invoice); err != nil {
			return flagged, err
		}
		flagged++

		if notifySvc != nil {
			notifySvc.NotifyAdmins(ctx,
				"Invoice overdue",
				fmt.Sprintf("Invoice #%d for client #%d is overdue, balance %.2f", invoice.ID, invoice.ClientID, invoice.BalanceRemaining()),
				models.NotificationTypeInvoiceOverdue)
		}
	}
	return flagged, nil
}
