package models

import (
	"time"
)

// Appointment represents a scheduled massage session
type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ClientID        uint      `gorm:"not null;index" json:"client_id"`
	TherapistID     uint      `gorm:"not null;index" json:"therapist_id"`
	ServiceType     string    `gorm:"not null;index" json:"service_type"`
	ScheduledAt     time.Time `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status          string    `gorm:"default:scheduled;not null;index" json:"status"`
	Notes           *string   `gorm:"type:text" json:"notes,omitempty"`
	Invoiced        bool      `gorm:"default:false;index" json:"invoiced"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Client    Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Therapist User     `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	SOAPNote  *SOAPNote `gorm:"foreignKey:AppointmentID" json:"soap_note,omitempty"`
}

// TableName specifies the table name for Appointment
func (Appointment) TableName() string {
	return "appointments"
}

// Appointment status constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusNoShow    = "no_show"
)

// EndsAt returns the scheduled end time of the session
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two appointments occupy overlapping time slots
func (a *Appointment) Overlaps(other *Appointment) bool {
	return a.ScheduledAt.Before(other.EndsAt()) && other.ScheduledAt.Before(a.EndsAt())
}

// MayComplete returns true if the appointment can be marked completed
func (a *Appointment) MayComplete() bool {
	return a.Status == AppointmentStatusScheduled
}

// MayCancel returns true if the appointment can still be cancelled
func (a *Appointment) MayCancel() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsBillable returns true if the appointment can appear on a new invoice
func (a *Appointment) IsBillable() bool {
	return a.Status == AppointmentStatusCompleted && !a.Invoiced
}

// AppointmentResponse is the JSON response format for appointments
type AppointmentResponse struct {
	ID              uint      `json:"id"`
	ClientID        uint      `json:"client_id"`
	ClientName      string    `json:"client_name,omitempty"`
	TherapistID     uint      `json:"therapist_id"`
	TherapistName   string    `json:"therapist_name,omitempty"`
	ServiceType     string    `json:"service_type"`
	ServiceName     string    `json:"service_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	Invoiced        bool      `json:"invoiced"`
	HasSOAPNote     bool      `json:"has_soap_note"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToResponse converts Appointment to AppointmentResponse
func (a *Appointment) ToResponse() AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID,
		ClientID:        a.ClientID,
		TherapistID:     a.TherapistID,
		ServiceType:     a.ServiceType,
		ServiceName:     ServiceDisplayName(a.ServiceType),
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Price:           a.Price,
		Status:          a.Status,
		Notes:           a.Notes,
		Invoiced:        a.Invoiced,
		HasSOAPNote:     a.SOAPNote != nil && a.SOAPNote.ID != 0,
		CreatedAt:       a.CreatedAt,
	}

	if a.Client.ID != 0 {
		resp.ClientName = a.Client.FullName
	}
	if a.Therapist.ID != 0 {
		resp.TherapistName = a.Therapist.FullName
	}

	return resp
}
