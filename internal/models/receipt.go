package models

import (
	"fmt"
	"time"
)

// ReceiptSequence is the persisted per-year counter backing receipt numbers.
// Keeping it in the database means numbering survives restarts and stays
// monotonic within a year.
type ReceiptSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Year      int       `gorm:"uniqueIndex;not null" json:"year"`
	LastValue int       `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for ReceiptSequence
func (ReceiptSequence) TableName() string {
	return "receipt_sequences"
}

// Receipt is a value object assembled from a payment at generation time.
// It is rendered to PDF and the number is recorded on the payment trail;
// the receipt itself is not a table row.
type Receipt struct {
	Number     string    `json:"number"`
	PaymentID  uint      `json:"payment_id"`
	InvoiceID  uint      `json:"invoice_id"`
	ClientName string    `json:"client_name"`
	AmountPaid float64   `json:"amount_paid"`
	Method     string    `json:"method"`
	IssuedAt   time.Time `json:"issued_at"`
}

// FormatReceiptNumber builds the canonical receipt number, e.g. REC-2025-0001
func FormatReceiptNumber(year, sequence int) string {
	return fmt.Sprintf("REC-%d-%04d", year, sequence)
}
