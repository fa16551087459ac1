package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"gorm.io/gorm"
)

// Mock InvoiceRepository
type mockInvoiceRepository struct {
	repository.InvoiceRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Invoice, error)
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

// Mock Gateway
type mockGateway struct {
	mockAuthorize func(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error)
}

func (m *mockGateway) Authorize(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error) {
	if m.mockAuthorize != nil {
		return m.mockAuthorize(ctx, card, amount)
	}
	return &gateway.Charge{ID: "ch_test", Amount: amount, AuthorizedAt: time.Now()}, nil
}

func newTestPaymentService(invoiceRepo repository.InvoiceRepository, gw gateway.Gateway) *PaymentService {
	// The error paths under test all return before the database
	// transaction opens, so the nil collaborators are never touched.
	return NewPaymentService(nil, &mockPaymentRepository{}, invoiceRepo, nil, nil, nil, nil, nil, gw, nil)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	service := newTestPaymentService(&mockInvoiceRepository{}, &mockGateway{})

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    0,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    -25.00,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordPaymentRejectsUnknownMethod(t *testing.T) {
	service := newTestPaymentService(&mockInvoiceRepository{}, &mockGateway{})

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    50.00,
		Method:    "bitcoin",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payment method")
}

func TestRecordPaymentInvoiceNotFound(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newTestPaymentService(invoiceRepo, &mockGateway{})

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 999,
		Amount:    50.00,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPaymentExceedsBalance(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 86.40, PaidAmount: 50.00, Status: models.InvoiceStatusPartiallyPaid}, nil
		},
	}
	service := newTestPaymentService(invoiceRepo, &mockGateway{})

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    40.00,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
}

func TestRecordPaymentCardRequired(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00, Status: models.InvoiceStatusUnpaid}, nil
		},
	}
	service := newTestPaymentService(invoiceRepo, &mockGateway{})

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    100.00,
		Method:    models.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestRecordPaymentInvalidCardDetails(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00, Status: models.InvoiceStatusUnpaid}, nil
		},
	}
	gatewayCalled := false
	gw := &mockGateway{
		mockAuthorize: func(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error) {
			gatewayCalled = true
			return nil, nil
		},
	}
	service := newTestPaymentService(invoiceRepo, gw)

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    100.00,
		Method:    models.PaymentMethodCard,
		Card: &gateway.Card{
			Number:      "4532015112830367", // fails the Luhn check
			ExpiryMonth: 12,
			ExpiryYear:  2099,
			CVV:         "123",
		},
	})
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.False(t, gatewayCalled, "invalid cards must never reach the gateway")
}

func TestRecordPaymentCardDeclined(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00, Status: models.InvoiceStatusUnpaid}, nil
		},
	}
	gw := &mockGateway{
		mockAuthorize: func(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error) {
			return nil, gateway.ErrDeclined
		},
	}
	service := newTestPaymentService(invoiceRepo, gw)

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    100.00,
		Method:    models.PaymentMethodCard,
		Card: &gateway.Card{
			Number:      "4532015112830366",
			ExpiryMonth: 12,
			ExpiryYear:  2099,
			CVV:         "123",
		},
	})
	assert.ErrorIs(t, err, ErrCardDeclined)
}

func TestRecordPaymentGatewayFailure(t *testing.T) {
	invoiceRepo := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00, Status: models.InvoiceStatusUnpaid}, nil
		},
	}
	gw := &mockGateway{
		mockAuthorize: func(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error) {
			return nil, errors.New("processor timeout")
		},
	}
	service := newTestPaymentService(invoiceRepo, gw)

	_, err := service.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID: 1,
		Amount:    100.00,
		Method:    models.PaymentMethodCard,
		Card: &gateway.Card{
			Number:      "4532015112830366",
			ExpiryMonth: 12,
			ExpiryYear:  2099,
			CVV:         "123",
		},
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCardDeclined)
}

func TestIssueRefundRejectsNonPositiveAmount(t *testing.T) {
	service := newTestPaymentService(&mockInvoiceRepository{}, &mockGateway{})

	_, err := service.IssueRefund(context.Background(), 1, 0, "duplicate charge", 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestIssueRefundPaymentNotFound(t *testing.T) {
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewPaymentService(nil, paymentRepo, &mockInvoiceRepository{}, nil, nil, nil, nil, nil, &mockGateway{}, nil)

	_, err := service.IssueRefund(context.Background(), 999, 50.00, "duplicate charge", 1, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRefundOnlyOnce(t *testing.T) {
	refundedAt := time.Now()
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{
				ID:             id,
				Amount:         86.40,
				Status:         models.PaymentStatusRefunded,
				RefundedAmount: 86.40,
				RefundedAt:     &refundedAt,
			}, nil
		},
	}
	service := NewPaymentService(nil, paymentRepo, &mockInvoiceRepository{}, nil, nil, nil, nil, nil, &mockGateway{}, nil)

	_, err := service.IssueRefund(context.Background(), 1, 10.00, "client complaint", 1, "", "")
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
}

func TestIssueRefundCannotExceedPayment(t *testing.T) {
	paymentRepo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, Amount: 86.40, Status: models.PaymentStatusCompleted}, nil
		},
	}
	service := NewPaymentService(nil, paymentRepo, &mockInvoiceRepository{}, nil, nil, nil, nil, nil, &mockGateway{}, nil)

	_, err := service.IssueRefund(context.Background(), 1, 100.00, "client complaint", 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApplyPaymentAdvancesInvoiceStatus(t *testing.T) {
	ctx := context.Background()
	invoice := &models.Invoice{ID: 1, Total: 86.40, Status: models.InvoiceStatusUnpaid}

	assert.NoError(t, applyPayment(ctx, invoice, 50.00))
	assert.Equal(t, 50.00, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	assert.NoError(t, applyPayment(ctx, invoice, 36.40))
	assert.Equal(t, 86.40, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestSettleRefundRejectsExcessAmount(t *testing.T) {
	invoice := &models.Invoice{ID: 1, Total: 86.40, PaidAmount: 86.40, Status: models.InvoiceStatusPaid}
	payment := &models.Payment{ID: 7, InvoiceID: 1, Amount: 86.40, Status: models.PaymentStatusCompleted}

	err := settleRefund(context.Background(), payment, invoice, 100.00, "overcharge", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, 86.40, invoice.PaidAmount)
}

func TestSettleRefundRejectsSecondRefund(t *testing.T) {
	now := time.Now()
	invoice := &models.Invoice{ID: 1, Total: 86.40, Status: models.InvoiceStatusUnpaid}
	payment := &models.Payment{
		ID:             7,
		InvoiceID:      1,
		Amount:         86.40,
		Status:         models.PaymentStatusRefunded,
		RefundedAmount: 86.40,
		RefundedAt:     &now,
	}

	err := settleRefund(context.Background(), payment, invoice, 10.00, "again", now)
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
}

func TestRefundThenRepaymentRestoresInvoice(t *testing.T) {
	ctx := context.Background()
	invoice := &models.Invoice{ID: 1, Total: 86.40, Status: models.InvoiceStatusUnpaid}

	assert.NoError(t, applyPayment(ctx, invoice, 86.40))
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)

	payment := &models.Payment{ID: 7, InvoiceID: 1, Amount: 86.40, Status: models.PaymentStatusCompleted, PaidAt: time.Now()}
	assert.NoError(t, settleRefund(ctx, payment, invoice, 86.40, "client cancelled", time.Now()))
	assert.Equal(t, models.PaymentStatusRefunded, payment.Status)
	assert.Equal(t, 86.40, payment.RefundedAmount)
	assert.Equal(t, 0.00, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)

	// Paying again after a full refund lands the invoice back where it was
	assert.NoError(t, applyPayment(ctx, invoice, 86.40))
	assert.Equal(t, 86.40, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestSettleRefundPartialAmount(t *testing.T) {
	ctx := context.Background()
	invoice := &models.Invoice{ID: 1, Total: 86.40, PaidAmount: 86.40, Status: models.InvoiceStatusPaid}
	payment := &models.Payment{ID: 7, InvoiceID: 1, Amount: 86.40, Status: models.PaymentStatusCompleted}

	assert.NoError(t, settleRefund(ctx, payment, invoice, 36.40, "late cancellation fee kept", time.Now()))
	assert.Equal(t, models.PaymentStatusPartiallyRefunded, payment.Status)
	assert.Equal(t, 50.00, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)
}
