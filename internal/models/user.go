package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff member of the practice
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword  string     `gorm:"column:encrypted_password;not null" json:"-"`
	Role               string     `gorm:"default:therapist" json:"role"`
	FullName           string     `json:"full_name"`
	Phone              string     `json:"phone"`
	Status             string     `gorm:"default:active" json:"status"`
	Specialty          *string    `json:"specialty,omitempty"`
	LicenseNumber      *string    `gorm:"uniqueIndex" json:"license_number,omitempty"`
	HireDate           *time.Time `gorm:"type:date" json:"hire_date,omitempty"`
	DiscardedAt        *time.Time `gorm:"index" json:"-"`
	RecoveryCode       *string    `json:"-"`
	RecoveryCodeSentAt *time.Time `json:"-"`
	CreatedBy          *uint      `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Associations
	Creator       *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Appointments  []Appointment  `gorm:"foreignKey:TherapistID" json:"appointments,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleTherapist
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsTherapist returns true if user has therapist role
func (u *User) IsTherapist() bool {
	return u.Role == RoleTherapist
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}

// IsDiscarded returns true if user is soft-deleted
func (u *User) IsDiscarded() bool {
	return u.DiscardedAt != nil
}

// Role constants
const (
	RoleAdmin        = "admin"
	RoleTherapist    = "therapist"
	RoleReceptionist = "receptionist"
)

// Status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	Specialty     *string    `json:"specialty,omitempty"`
	LicenseNumber *string    `json:"license_number,omitempty"`
	HireDate      *time.Time `json:"hire_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Role:          u.Role,
		Status:        u.Status,
		Specialty:     u.Specialty,
		LicenseNumber: u.LicenseNumber,
		HireDate:      u.HireDate,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
