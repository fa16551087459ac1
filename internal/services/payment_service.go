package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/jobs"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/statemachine"
	"github.com/serenispa/serenity-api/pkg/logger"
)

// amounts are compared with a half-cent tolerance to absorb float rounding
const amountEpsilon = 0.005

// RecordPaymentInput carries everything needed to post a payment against
// an invoice. Card is required only when Method is card.
type RecordPaymentInput struct {
	InvoiceID       uint
	Amount          float64
	Method          string
	ReferenceNumber *string
	Card            *gateway.Card
	RecordedByID    uint
	IP              string
	UserAgent       string
}

type PaymentService struct {
	db              *gorm.DB
	repo            repository.PaymentRepository
	invoiceRepo     repository.InvoiceRepository
	transactionRepo repository.TransactionRepository
	clientRepo      repository.ClientRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	gateway         gateway.Gateway
	worker          *jobs.Worker
}

func NewPaymentService(
	db *gorm.DB,
	repo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	transactionRepo repository.TransactionRepository,
	clientRepo repository.ClientRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	gw gateway.Gateway,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		db:              db,
		repo:            repo,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		clientRepo:      clientRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		gateway:         gw,
		worker:          worker,
	}
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

func (s *PaymentService) FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	return s.repo.FindByInvoice(ctx, invoiceID)
}

func (s *PaymentService) FindByClient(ctx context.Context, clientID uint) ([]models.Payment, error) {
	return s.repo.FindByClient(ctx, clientID)
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *PaymentService) GetMonthlyStats(ctx context.Context) (*repository.PaymentStats, error) {
	return s.repo.GetMonthlyStats(ctx)
}

// RecordPayment posts a payment against an invoice. Card payments are
// validated and authorized through the gateway before anything is written.
// The payment row, the invoice status change and the ledger income entry
// commit in a single database transaction.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidPaymentMethod(input.Method) {
		return nil, fmt.Errorf("unsupported payment method: %s", input.Method)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, ErrNotFound
	}
	if input.Amount > invoice.BalanceRemaining()+amountEpsilon {
		return nil, ErrAmountExceedsBalance
	}

	// Authorize the card before opening the transaction. The gateway call
	// carries real latency and must not hold row locks while it runs.
	if input.Method == models.PaymentMethodCard {
		if input.Card == nil {
			return nil, ErrInvalidCard
		}
		result := ValidateCard(input.Card.Number, input.Card.ExpiryMonth, input.Card.ExpiryYear, input.Card.CVV, time.Now())
		if !result.Valid() {
			return nil, ErrInvalidCard
		}
		charge, err := s.gateway.Authorize(ctx, *input.Card, input.Amount)
		if err != nil {
			if errors.Is(err, gateway.ErrDeclined) {
				return nil, ErrCardDeclined
			}
			return nil, fmt.Errorf("gateway authorize: %w", err)
		}
		if input.ReferenceNumber == nil {
			input.ReferenceNumber = &charge.ID
		}
	}

	now := time.Now()
	recordedBy := input.RecordedByID
	payment := &models.Payment{
		InvoiceID:       invoice.ID,
		ClientID:        invoice.ClientID,
		Amount:          input.Amount,
		Method:          input.Method,
		Status:          models.PaymentStatusCompleted,
		ReferenceNumber: input.ReferenceNumber,
		PaidAt:          now,
		RecordedByID:    &recordedBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read under lock so concurrent payments cannot overshoot the balance
		locked, err := s.invoiceRepo.FindByIDForUpdate(ctx, tx, invoice.ID)
		if err != nil {
			return ErrNotFound
		}
		if input.Amount > locked.BalanceRemaining()+amountEpsilon {
			return ErrAmountExceedsBalance
		}

		if err := s.repo.CreateTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		if err := applyPayment(ctx, locked, input.Amount); err != nil {
			return err
		}
		if err := s.invoiceRepo.UpdateTx(ctx, tx, locked); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		entry := &models.Transaction{
			Type:          models.TransactionTypeIncome,
			Amount:        input.Amount,
			Category:      models.IncomeCategoryServices,
			Description:   fmt.Sprintf("Payment for invoice #%d", invoice.ID),
			Date:          now,
			PaymentMethod: input.Method,
			Auto:          true,
			PaymentID:     &payment.ID,
		}
		if err := s.transactionRepo.CreateTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("create ledger entry: %w", err)
		}

		invoice = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if invoice.IsPaid() {
			return s.notificationSvc.NotifyAdmins(ctx, "Invoice paid",
				fmt.Sprintf("Invoice #%d has been paid in full", invoice.ID),
				models.NotificationTypeInvoicePaid)
		}
		return s.notificationSvc.NotifyAdmins(ctx, "Payment recorded",
			fmt.Sprintf("Payment of %.2f recorded for invoice #%d", input.Amount, invoice.ID),
			models.NotificationTypePaymentRecorded)
	})

	if err := s.auditSvc.Log(ctx, input.RecordedByID, models.AuditActionPayment, "Payment", payment.ID,
		fmt.Sprintf("Payment of %.2f (%s) recorded for invoice #%d", input.Amount, input.Method, invoice.ID),
		input.IP, input.UserAgent); err != nil {
		logger.Warn("audit log failed", "payment_id", payment.ID, "error", err)
	}

	return payment, nil
}

// IssueRefund reverses part or all of a completed payment. A payment can
// only be refunded once; the refund rolls the invoice paid amount back and
// writes a compensating expense entry in the ledger.
func (s *PaymentService) IssueRefund(ctx context.Context, paymentID uint, amount float64, reason string, actorID uint, ip, userAgent string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !payment.MayRefund() {
		return nil, ErrAlreadyRefunded
	}
	if amount > payment.Amount+amountEpsilon {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindByIDForUpdate(ctx, tx, payment.InvoiceID)
		if err != nil {
			return ErrNotFound
		}
		// Re-read under lock so two concurrent refunds cannot both pass the
		// MayRefund check and double-roll the invoice
		locked, err := s.repo.FindByIDForUpdate(ctx, tx, paymentID)
		if err != nil {
			return ErrNotFound
		}

		if err := settleRefund(ctx, locked, invoice, amount, reason, now); err != nil {
			return err
		}
		if err := s.repo.UpdateTx(ctx, tx, locked); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if err := s.invoiceRepo.UpdateTx(ctx, tx, invoice); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		payment = locked

		entry := &models.Transaction{
			Type:          models.TransactionTypeExpense,
			Amount:        amount,
			Category:      models.ExpenseCategoryOther,
			Description:   fmt.Sprintf("Refund for payment #%d on invoice #%d", payment.ID, invoice.ID),
			Date:          now,
			PaymentMethod: payment.Method,
			Auto:          true,
			PaymentID:     &payment.ID,
		}
		if err := s.transactionRepo.CreateTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("create ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx, "Payment refunded",
			fmt.Sprintf("Refund of %.2f issued for payment #%d", amount, payment.ID),
			models.NotificationTypePaymentRefunded)
	})

	if err := s.auditSvc.Log(ctx, actorID, models.AuditActionRefund, "Payment", payment.ID,
		fmt.Sprintf("Refund of %.2f issued, reason: %s", amount, reason), ip, userAgent); err != nil {
		logger.Warn("audit log failed", "payment_id", payment.ID, "error", err)
	}

	return payment, nil
}

// applyPayment adds amount to the invoice's paid total and advances the
// invoice status. Callers persist the invoice afterwards.
func applyPayment(ctx context.Context, invoice *models.Invoice, amount float64) error {
	invoice.PaidAmount = roundMoney(invoice.PaidAmount + amount)
	return statemachine.NewInvoiceFSM(invoice).ApplyPaidAmount(ctx)
}

// settleRefund marks the payment refunded and rolls the invoice paid amount
// back. It re-validates the refund against the rows it is handed, so running
// it on locked rows inside a transaction closes the window between the
// service-level pre-checks and the write.
func settleRefund(ctx context.Context, payment *models.Payment, invoice *models.Invoice, amount float64, reason string, now time.Time) error {
	if !payment.MayRefund() {
		return ErrAlreadyRefunded
	}
	if amount > payment.Amount+amountEpsilon {
		return ErrInvalidAmount
	}

	payment.RefundedAmount = roundMoney(amount)
	payment.RefundedAt = &now
	if reason != "" {
		payment.RefundReason = &reason
	}
	if amount >= payment.Amount-amountEpsilon {
		payment.Status = models.PaymentStatusRefunded
	} else {
		payment.Status = models.PaymentStatusPartiallyRefunded
	}

	invoice.PaidAmount = roundMoney(invoice.PaidAmount - amount)
	if invoice.PaidAmount < 0 {
		invoice.PaidAmount = 0
	}
	return statemachine.NewInvoiceFSM(invoice).ApplyPaidAmount(ctx)
}
