package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/serenispa/serenity-api/internal/middleware"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	paymentService *services.PaymentService
	reportService  *services.ReportService
	defaultTaxRate float64
}

func NewInvoiceHandler(
	invoiceService *services.InvoiceService,
	paymentService *services.PaymentService,
	reportService *services.ReportService,
	defaultTaxRate float64,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
		reportService:  reportService,
		defaultTaxRate: defaultTaxRate,
	}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["client_id"] = c.Query("client_id")

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.InvoiceResponse
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Invoice
// @Description Get an invoice by ID, with line items and payments
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type CreateInvoiceRequest struct {
	ClientID       uint                     `json:"client_id" binding:"required"`
	AppointmentIDs []uint                   `json:"appointment_ids"`
	ExtraItems     []services.LineItemInput `json:"extra_items"`
	TaxRate        *float64                 `json:"tax_rate"`
	Discount       float64                  `json:"discount"`
	Notes          string                   `json:"notes"`
}

// @Summary Create Invoice
// @Description Create an invoice from completed appointments and manual line items
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice Data"
// @Success 201 {object} models.InvoiceResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := BindNestedOrFlat(c, "invoice", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ClientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}

	input := services.CreateInvoiceInput{
		ClientID:       req.ClientID,
		AppointmentIDs: req.AppointmentIDs,
		ExtraItems:     req.ExtraItems,
		Discount:       req.Discount,
	}
	if req.TaxRate != nil {
		input.TaxRate = *req.TaxRate
	} else {
		input.TaxRate = h.defaultTaxRate
	}
	if req.Notes != "" {
		input.Notes = &req.Notes
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), input, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "One or more appointments are not billable"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse(), "message": "Invoice created"})
}

// @Summary Get Invoice Payments
// @Description List payments recorded against an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{invoice_id}/payments [get]
func (h *InvoiceHandler) Payments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	payments, err := h.paymentService.FindByInvoice(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// @Summary Download Invoice PDF
// @Description Render the invoice as a printable PDF
// @Tags Invoices
// @Produce application/pdf
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	buf, err := h.reportService.GenerateInvoicePDF(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
