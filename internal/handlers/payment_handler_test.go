package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/services"
)

type stubPaymentRepo struct {
	repository.PaymentRepository
	findByID func(ctx context.Context, id uint) (*models.Payment, error)
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type stubInvoiceRepo struct {
	repository.InvoiceRepository
	findByID func(ctx context.Context, id uint) (*models.Invoice, error)
}

func (s *stubInvoiceRepo) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type declineGateway struct{}

func (declineGateway) Authorize(ctx context.Context, card gateway.Card, amount float64) (*gateway.Charge, error) {
	return nil, gateway.ErrDeclined
}

func postPayment(t *testing.T, handler *PaymentHandler, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))

	handler.Create(c)
	return w
}

func TestCreatePaymentMapsInvalidAmount(t *testing.T) {
	invoiceRepo := &stubInvoiceRepo{
		findByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00}, nil
		},
	}
	svc := services.NewPaymentService(nil, &stubPaymentRepo{}, invoiceRepo, nil, nil, nil, nil, nil, declineGateway{}, nil)
	handler := NewPaymentHandler(svc)

	w := postPayment(t, handler, map[string]interface{}{
		"invoice_id": 1,
		"amount":     -10.00,
		"method":     "cash",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "greater than zero")
}

func TestCreatePaymentMapsInvoiceNotFound(t *testing.T) {
	svc := services.NewPaymentService(nil, &stubPaymentRepo{}, &stubInvoiceRepo{}, nil, nil, nil, nil, nil, declineGateway{}, nil)
	handler := NewPaymentHandler(svc)

	w := postPayment(t, handler, map[string]interface{}{
		"invoice_id": 999,
		"amount":     50.00,
		"method":     "cash",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePaymentMapsExceedsBalance(t *testing.T) {
	invoiceRepo := &stubInvoiceRepo{
		findByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 86.40, PaidAmount: 80.00}, nil
		},
	}
	svc := services.NewPaymentService(nil, &stubPaymentRepo{}, invoiceRepo, nil, nil, nil, nil, nil, declineGateway{}, nil)
	handler := NewPaymentHandler(svc)

	w := postPayment(t, handler, map[string]interface{}{
		"invoice_id": 1,
		"amount":     50.00,
		"method":     "cash",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds the invoice balance")
}

func TestCreatePaymentMapsCardDeclined(t *testing.T) {
	invoiceRepo := &stubInvoiceRepo{
		findByID: func(ctx context.Context, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Total: 100.00}, nil
		},
	}
	svc := services.NewPaymentService(nil, &stubPaymentRepo{}, invoiceRepo, nil, nil, nil, nil, nil, declineGateway{}, nil)
	handler := NewPaymentHandler(svc)

	w := postPayment(t, handler, map[string]interface{}{
		"invoice_id": 1,
		"amount":     100.00,
		"method":     "card",
		"card": map[string]interface{}{
			"number":       "4532015112830366",
			"expiry_month": 12,
			"expiry_year":  2099,
			"cvv":          "123",
		},
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "declined")
}

func TestRefundMapsAlreadyRefunded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	refundedAt := time.Now()
	paymentRepo := &stubPaymentRepo{
		findByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return &models.Payment{
				ID:             id,
				Amount:         86.40,
				Status:         models.PaymentStatusRefunded,
				RefundedAmount: 86.40,
				RefundedAt:     &refundedAt,
			}, nil
		},
	}
	svc := services.NewPaymentService(nil, paymentRepo, &stubInvoiceRepo{}, nil, nil, nil, nil, nil, declineGateway{}, nil)
	handler := NewPaymentHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"amount": 10.00, "reason": "client complaint"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/payments/1/refund", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "payment_id", Value: "1"}}
	c.Set("userID", uint(1))

	handler.Refund(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
