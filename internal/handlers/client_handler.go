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

type ClientHandler struct {
	clientService      *services.ClientService
	appointmentService *services.AppointmentService
	invoiceService     *services.InvoiceService
}

func NewClientHandler(
	clientService *services.ClientService,
	appointmentService *services.AppointmentService,
	invoiceService *services.InvoiceService,
) *ClientHandler {
	return &ClientHandler{
		clientService:      clientService,
		appointmentService: appointmentService,
		invoiceService:     invoiceService,
	}
}

// @Summary List Clients
// @Description Get a paginated list of clients
// @Tags Clients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name, email or phone"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ClientResponse
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Client
// @Description Get a client record by ID. The read is written to the audit trail.
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

type ClientRequest struct {
	FullName          string `json:"full_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone"`
	DateOfBirth       string `json:"date_of_birth"`
	Address           string `json:"address"`
	EmergencyContact  string `json:"emergency_contact"`
	MedicalNotes      string `json:"medical_notes"`
	Allergies         string `json:"allergies"`
	PreferredPressure string `json:"preferred_pressure"`
	ReferralSource    string `json:"referral_source"`
}

func (r *ClientRequest) apply(client *models.Client) error {
	client.FullName = r.FullName
	client.Email = r.Email
	client.Phone = r.Phone
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			return errors.New("date_of_birth must be YYYY-MM-DD")
		}
		client.DateOfBirth = &dob
	}
	if r.Address != "" {
		client.Address = &r.Address
	}
	if r.EmergencyContact != "" {
		client.EmergencyContact = &r.EmergencyContact
	}
	if r.MedicalNotes != "" {
		client.MedicalNotes = &r.MedicalNotes
	}
	if r.Allergies != "" {
		client.Allergies = &r.Allergies
	}
	if r.PreferredPressure != "" {
		client.PreferredPressure = &r.PreferredPressure
	}
	if r.ReferralSource != "" {
		client.ReferralSource = &r.ReferralSource
	}
	return nil
}

// @Summary Create Client
// @Description Create a new client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body ClientRequest true "Client Data"
// @Success 201 {object} models.ClientResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and email are required"})
		return
	}

	var client models.Client
	if err := req.apply(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.clientService.Create(c.Request.Context(), &client, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A client with that email already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse(), "message": "Client created successfully"})
}

// @Summary Update Client
// @Description Update a client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Param request body ClientRequest true "Client Data"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var req ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.apply(client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.clientService.Update(c.Request.Context(), client, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse(), "message": "Client updated successfully"})
}

// @Summary Archive Client
// @Description Archive a client record (soft delete)
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [delete]
func (h *ClientHandler) Archive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err := h.clientService.Archive(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client archived"})
}

// @Summary Restore Client
// @Description Restore an archived client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id}/restore [post]
func (h *ClientHandler) Restore(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err := h.clientService.Restore(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client restored"})
}

// @Summary Get Client Appointments
// @Description List appointments for a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/appointments [get]
func (h *ClientHandler) Appointments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	appointments, err := h.appointmentService.FindByClient(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		responses = append(responses, a.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"appointments": responses})
}

// @Summary Get Client Invoices
// @Description List invoices for a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/invoices [get]
func (h *ClientHandler) Invoices(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	invoices, err := h.invoiceService.FindByClient(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"invoices": responses})
}
