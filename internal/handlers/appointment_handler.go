package handlers

import (
	"context"
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

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// @Summary List Appointments
// @Description Get a paginated list of appointments
// @Tags Appointments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param therapist_id query int false "Filter by therapist"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /appointments [get]
func (h *AppointmentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["therapist_id"] = c.Query("therapist_id")

	appointments, total, err := h.appointmentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.AppointmentResponse
	for _, a := range appointments {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Appointment
// @Description Get an appointment by ID
// @Tags Appointments
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Success 200 {object} models.AppointmentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id} [get]
func (h *AppointmentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	appointment, err := h.appointmentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appointment.ToResponse()})
}

type BookAppointmentRequest struct {
	ClientID        uint   `json:"client_id" binding:"required"`
	TherapistID     uint   `json:"therapist_id" binding:"required"`
	ServiceType     string `json:"service_type" binding:"required"`
	ScheduledAt     string `json:"scheduled_at" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

// @Summary Book Appointment
// @Description Book a session for a client with a therapist. Rejects overlapping slots.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body BookAppointmentRequest true "Appointment Data"
// @Success 201 {object} models.AppointmentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req BookAppointmentRequest
	if err := BindNestedOrFlat(c, "appointment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ClientID == 0 || req.TherapistID == 0 || req.ServiceType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id, therapist_id and service_type are required"})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC3339"})
		return
	}

	input := services.BookAppointmentInput{
		ClientID:        req.ClientID,
		TherapistID:     req.TherapistID,
		ServiceType:     req.ServiceType,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
	}
	if req.Notes != "" {
		input.Notes = &req.Notes
	}

	appointment, err := h.appointmentService.Book(c.Request.Context(), input, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScheduleConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "The therapist already has an appointment in that time slot"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": appointment.ToResponse(), "message": "Appointment booked"})
}

// @Summary Complete Appointment
// @Description Mark an appointment as completed, making it billable
// @Tags Appointments
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Success 200 {object} models.AppointmentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id}/complete [put]
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.appointmentService.Complete, "Appointment completed")
}

// @Summary Cancel Appointment
// @Description Cancel a scheduled appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Success 200 {object} models.AppointmentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id}/cancel [put]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.appointmentService.Cancel, "Appointment cancelled")
}

// @Summary Mark No-Show
// @Description Mark an appointment as a no-show
// @Tags Appointments
// @Accept json
// @Produce json
// @Param appointment_id path int true "Appointment ID"
// @Success 200 {object} models.AppointmentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /appointments/{appointment_id}/no_show [put]
func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, h.appointmentService.MarkNoShow, "Appointment marked as no-show")
}

type appointmentTransition func(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Appointment, error)

func (h *AppointmentHandler) transition(c *gin.Context, fn appointmentTransition, message string) {
	id, _ := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	appointment, err := fn(c.Request.Context(), uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Appointment cannot change to that status"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appointment.ToResponse(), "message": message})
}
