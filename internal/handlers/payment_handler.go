package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/middleware"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param method query string false "Filter by payment method"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["method"] = c.Query("method")
	query.Filters["status"] = c.Query("status")

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.PaymentResponse
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Payment
// @Description Get a payment by ID
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Payment Stats
// @Description Collection totals for the current month
// @Tags Payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments/stats [get]
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.paymentService.GetMonthlyStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type CardRequest struct {
	Number      string `json:"number" binding:"required"`
	ExpiryMonth int    `json:"expiry_month" binding:"required"`
	ExpiryYear  int    `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
	HolderName  string `json:"holder_name"`
}

type RecordPaymentRequest struct {
	InvoiceID       uint         `json:"invoice_id" binding:"required"`
	Amount          float64      `json:"amount" binding:"required"`
	Method          string       `json:"method" binding:"required"`
	ReferenceNumber string       `json:"reference_number"`
	Card            *CardRequest `json:"card"`
}

// @Summary Record Payment
// @Description Record a payment against an invoice. Card payments are authorized through the gateway first.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body RecordPaymentRequest true "Payment Data"
// @Success 201 {object} models.PaymentResponse
// @Failure 402 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req RecordPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.InvoiceID == 0 || req.Method == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoice_id and method are required"})
		return
	}

	input := services.RecordPaymentInput{
		InvoiceID:    req.InvoiceID,
		Amount:       req.Amount,
		Method:       req.Method,
		RecordedByID: middleware.GetUserID(c),
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
	if req.ReferenceNumber != "" {
		input.ReferenceNumber = &req.ReferenceNumber
	}
	if req.Card != nil {
		input.Card = &gateway.Card{
			Number:      req.Card.Number,
			ExpiryMonth: req.Card.ExpiryMonth,
			ExpiryYear:  req.Card.ExpiryYear,
			CVV:         req.Card.CVV,
			HolderName:  req.Card.HolderName,
		}
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		case errors.Is(err, services.ErrAmountExceedsBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Amount exceeds the invoice balance"})
		case errors.Is(err, services.ErrInvalidCard):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Card details are invalid"})
		case errors.Is(err, services.ErrCardDeclined):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "The card was declined"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse(), "message": "Payment recorded"})
}

type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
}

// @Summary Refund Payment
// @Description Refund a payment, fully or partially. A payment can only be refunded once.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body RefundRequest true "Refund Data"
// @Success 200 {object} models.PaymentResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.IssueRefund(c.Request.Context(), uint(id), req.Amount, req.Reason,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive and no more than the payment amount"})
		case errors.Is(err, services.ErrAlreadyRefunded):
			c.JSON(http.StatusConflict, gin.H{"error": "The payment has already been refunded"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse(), "message": "Refund issued"})
}
