package models

import (
	"time"
)

// Client represents a massage therapy client record.
// MedicalNotes and Allergies are protected health information; every read
// through the service layer produces an audit entry.
type Client struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	FullName          string     `gorm:"not null;index" json:"full_name"`
	Email             string     `gorm:"uniqueIndex" json:"email"`
	Phone             string     `json:"phone"`
	DateOfBirth       *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address           *string    `json:"address,omitempty"`
	EmergencyContact  *string    `json:"emergency_contact,omitempty"`
	MedicalNotes      *string    `gorm:"type:text" json:"medical_notes,omitempty"`
	Allergies         *string    `gorm:"type:text" json:"allergies,omitempty"`
	PreferredPressure *string    `json:"preferred_pressure,omitempty"`
	ReferralSource    *string    `json:"referral_source,omitempty"`
	DiscardedAt       *time.Time `gorm:"index" json:"-"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Appointments []Appointment `gorm:"foreignKey:ClientID" json:"appointments,omitempty"`
	Invoices     []Invoice     `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// IsDiscarded returns true if the client record is archived
func (c *Client) IsDiscarded() bool {
	return c.DiscardedAt != nil
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID                uint       `json:"id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Address           *string    `json:"address,omitempty"`
	EmergencyContact  *string    `json:"emergency_contact,omitempty"`
	MedicalNotes      *string    `json:"medical_notes,omitempty"`
	Allergies         *string    `json:"allergies,omitempty"`
	PreferredPressure *string    `json:"preferred_pressure,omitempty"`
	ReferralSource    *string    `json:"referral_source,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:                c.ID,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		DateOfBirth:       c.DateOfBirth,
		Address:           c.Address,
		EmergencyContact:  c.EmergencyContact,
		MedicalNotes:      c.MedicalNotes,
		Allergies:         c.Allergies,
		PreferredPressure: c.PreferredPressure,
		ReferralSource:    c.ReferralSource,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
