package models

import (
	"time"
)

// AuditLog records who did what to which record. Beyond financial mutations,
// reads of protected health information (client records, SOAP notes) are
// logged as ACCESS entries to support HIPAA-style compliance review.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, ACCESS, PAYMENT, REFUND, LOCK
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Client, SOAPNote, Invoice, Payment, etc.
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	PHIAccess bool      `gorm:"default:false;index" json:"phi_access"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionAccess  = "ACCESS"
	AuditActionPayment = "PAYMENT"
	AuditActionRefund  = "REFUND"
	AuditActionLock    = "LOCK"
	AuditActionLogin   = "LOGIN"
)
