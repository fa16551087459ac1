package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/serenispa/serenity-api/internal/middleware"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/services"
)

type SOAPNoteHandler struct {
	soapNoteService *services.SOAPNoteService
}

func NewSOAPNoteHandler(soapNoteService *services.SOAPNoteService) *SOAPNoteHandler {
	return &SOAPNoteHandler{soapNoteService: soapNoteService}
}

// @Summary Get SOAP Note
// @Description Get a SOAP note by ID. The read is written to the audit trail.
// @Tags SOAPNotes
// @Accept json
// @Produce json
// @Param note_id path int true "Note ID"
// @Success 200 {object} models.SOAPNoteResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /soap_notes/{note_id} [get]
func (h *SOAPNoteHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)
	note, err := h.soapNoteService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"soap_note": note.ToResponse()})
}

// @Summary Get Appointment Note
// @Description Get the SOAP note attached to an appointment
// @Tags SOAPNotes
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Success 200 {object} models.SOAPNoteResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id}/soap_note [get]
func (h *SOAPNoteHandler) ShowByAppointment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	note, err := h.soapNoteService.FindByAppointment(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"soap_note": note.ToResponse()})
}

type SOAPNoteRequest struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// @Summary Create SOAP Note
// @Description Write the clinical note for a completed appointment
// @Tags SOAPNotes
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Param request body SOAPNoteRequest true "Note Data"
// @Success 201 {object} models.SOAPNoteResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id}/soap_note [post]
func (h *SOAPNoteHandler) Create(c *gin.Context) {
	appointmentID, _ := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	var req SOAPNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := &models.SOAPNote{
		AppointmentID: uint(appointmentID),
		AuthorID:      middleware.GetUserID(c),
		Subjective:    req.Subjective,
		Objective:     req.Objective,
		Assessment:    req.Assessment,
		Plan:          req.Plan,
	}

	err := h.soapNoteService.Create(c.Request.Context(), note, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, services.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "The appointment already has a note"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Notes can only be written for completed appointments"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"soap_note": note.ToResponse(), "message": "Note created"})
}

// @Summary Update SOAP Note
// @Description Update an unlocked note. Only the author may edit.
// @Tags SOAPNotes
// @Accept json
// @Produce json
// @Param note_id path int true "Note ID"
// @Param request body SOAPNoteRequest true "Note Data"
// @Success 200 {object} models.SOAPNoteResponse
// @Failure 423 {object} map[string]string
// @Security BearerAuth
// @Router /soap_notes/{note_id} [put]
func (h *SOAPNoteHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)
	var req SOAPNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.soapNoteService.Update(c.Request.Context(), uint(id),
		req.Subjective, req.Objective, req.Assessment, req.Plan,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		case errors.Is(err, services.ErrNoteLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "The note has been signed and can no longer be edited"})
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may edit this note"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"soap_note": note.ToResponse(), "message": "Note updated"})
}

// @Summary Lock SOAP Note
// @Description Sign off a note, making it immutable
// @Tags SOAPNotes
// @Accept json
// @Produce json
// @Param note_id path int true "Note ID"
// @Success 200 {object} models.SOAPNoteResponse
// @Failure 423 {object} map[string]string
// @Security BearerAuth
// @Router /soap_notes/{note_id}/lock [put]
func (h *SOAPNoteHandler) Lock(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)
	note, err := h.soapNoteService.Lock(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		case errors.Is(err, services.ErrNoteLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "The note is already signed"})
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may sign this note"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"soap_note": note.ToResponse(), "message": "Note signed and locked"})
}
