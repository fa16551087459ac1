package models

import (
	"time"
)

// SOAPNote is the clinical documentation for one session
// (Subjective / Objective / Assessment / Plan). Once locked the note is
// immutable; locking is how a therapist signs off on the record.
type SOAPNote struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AppointmentID uint       `gorm:"not null;uniqueIndex" json:"appointment_id"`
	AuthorID      uint       `gorm:"not null;index" json:"author_id"`
	Subjective    string     `gorm:"type:text" json:"subjective"`
	Objective     string     `gorm:"type:text" json:"objective"`
	Assessment    string     `gorm:"type:text" json:"assessment"`
	Plan          string     `gorm:"type:text" json:"plan"`
	LockedAt      *time.Time `gorm:"index" json:"locked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Author      User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for SOAPNote
func (SOAPNote) TableName() string {
	return "soap_notes"
}

// IsLocked returns true if the note has been signed off
func (n *SOAPNote) IsLocked() bool {
	return n.LockedAt != nil
}

// Lock signs off the note
func (n *SOAPNote) Lock() {
	now := time.Now()
	n.LockedAt = &now
}

// SOAPNoteResponse is the JSON response format for SOAP notes
type SOAPNoteResponse struct {
	ID            uint       `json:"id"`
	AppointmentID uint       `json:"appointment_id"`
	AuthorID      uint       `json:"author_id"`
	AuthorName    string     `json:"author_name,omitempty"`
	Subjective    string     `json:"subjective"`
	Objective     string     `json:"objective"`
	Assessment    string     `json:"assessment"`
	Plan          string     `json:"plan"`
	Locked        bool       `json:"locked"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts SOAPNote to SOAPNoteResponse
func (n *SOAPNote) ToResponse() SOAPNoteResponse {
	resp := SOAPNoteResponse{
		ID:            n.ID,
		AppointmentID: n.AppointmentID,
		AuthorID:      n.AuthorID,
		Subjective:    n.Subjective,
		Objective:     n.Objective,
		Assessment:    n.Assessment,
		Plan:          n.Plan,
		Locked:        n.IsLocked(),
		LockedAt:      n.LockedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}

	if n.Author.ID != 0 {
		resp.AuthorName = n.Author.FullName
	}

	return resp
}
