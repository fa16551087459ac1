package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serenispa/serenity-api/internal/middleware"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/services"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	exportService      *services.ExportService
}

func NewTransactionHandler(
	transactionService *services.TransactionService,
	exportService *services.ExportService,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// @Summary List Transactions
// @Description Get a paginated list of ledger entries
// @Tags Transactions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param type query string false "Filter by type (income or expense)"
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["type"] = c.Query("type")
	query.Filters["category"] = c.Query("category")

	transactions, total, err := h.transactionService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.TransactionResponse
	for _, t := range transactions {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Transaction
// @Description Get a ledger entry by ID
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	transaction, err := h.transactionService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transaction.ToResponse()})
}

type TransactionRequest struct {
	Type          string  `json:"type" binding:"required"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Source        string  `json:"source"`
	PaymentMethod string  `json:"payment_method"`
	Taxable       *bool   `json:"taxable"`
	Deductible    *bool   `json:"deductible"`
}

func (r *TransactionRequest) apply(t *models.Transaction) error {
	t.Type = r.Type
	t.Amount = r.Amount
	t.Category = r.Category
	t.Description = r.Description
	t.PaymentMethod = r.PaymentMethod
	if r.Date != "" {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return errors.New("date must be YYYY-MM-DD")
		}
		t.Date = date
	}
	if r.Source != "" {
		t.Source = &r.Source
	}
	if r.Taxable != nil {
		t.Taxable = *r.Taxable
	}
	if r.Deductible != nil {
		t.Deductible = *r.Deductible
	}
	return nil
}

// @Summary Create Transaction
// @Description Record a manual income or expense entry
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction Data"
// @Success 201 {object} models.TransactionResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" || req.Category == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type, category and description are required"})
		return
	}

	var transaction models.Transaction
	if err := req.apply(&transaction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.transactionService.Create(c.Request.Context(), &transaction, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction.ToResponse(), "message": "Transaction recorded"})
}

// @Summary Update Transaction
// @Description Update a manual ledger entry. Entries generated from payments are immutable.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction Data"
// @Success 200 {object} models.TransactionResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	transaction, err := h.transactionService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	var req TransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.apply(transaction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.transactionService.Update(c.Request.Context(), transaction, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Automatic entries cannot be edited"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction.ToResponse(), "message": "Transaction updated"})
}

// @Summary Delete Transaction
// @Description Delete a manual ledger entry. Entries generated from payments are immutable.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	err := h.transactionService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Automatic entries cannot be deleted"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// @Summary Attach Receipt
// @Description Upload a receipt image or PDF for an expense entry
// @Tags Transactions
// @Accept multipart/form-data
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param receipt formData file true "Receipt file"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/receipt [post]
func (h *TransactionHandler) AttachReceipt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A receipt file is required"})
		return
	}
	defer file.Close()

	transaction, err := h.transactionService.AttachReceipt(c.Request.Context(), uint(id), file, header,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction.ToResponse(), "message": "Receipt attached"})
}

// @Summary Export Transactions
// @Description Export ledger entries for a date range as an Excel workbook
// @Tags Transactions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /transactions/export [get]
func (h *TransactionHandler) Export(c *gin.Context) {
	start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := h.transactionService.FindByDateRange(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, filename, err := h.exportService.ExportTransactionsXLSX(c.Request.Context(), transactions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseDateRange parses the start_date/end_date query pair. The end date is
// extended to the end of its day so the range is inclusive.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date are required")
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
	}
	end = end.Add(24*time.Hour - time.Nanosecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end_date must not be before start_date")
	}
	return start, end, nil
}
