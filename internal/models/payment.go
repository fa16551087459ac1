package models

import (
	"time"
)

// Payment represents money received against an invoice
type Payment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	InvoiceID       uint       `gorm:"not null;index" json:"invoice_id"`
	ClientID        uint       `gorm:"not null;index" json:"client_id"`
	Amount          float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method          string     `gorm:"not null;index" json:"method"`
	Status          string     `gorm:"default:completed;not null;index" json:"status"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`
	PaidAt          time.Time  `gorm:"not null;index" json:"paid_at"`
	RefundedAmount  float64    `gorm:"type:decimal(10,2);not null;default:0" json:"refunded_amount"`
	RefundReason    *string    `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	RecordedByID    *uint      `gorm:"index" json:"recorded_by_id,omitempty"`
	ReceiptNumber   *string    `gorm:"uniqueIndex" json:"receipt_number,omitempty"`
	ReceiptPath     *string    `json:"-"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Invoice    Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Client     Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	RecordedBy *User   `gorm:"foreignKey:RecordedByID" json:"recorded_by,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusCompleted         = "completed"
	PaymentStatusRefunded          = "refunded"
	PaymentStatusPartiallyRefunded = "partially_refunded"
)

// Payment method constants
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodCheck    = "check"
	PaymentMethodTransfer = "transfer"
	PaymentMethodOther    = "other"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCheck, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// IsRefunded returns true if any portion of the payment was returned
func (p *Payment) IsRefunded() bool {
	return p.RefundedAt != nil
}

// MayRefund returns true if a refund can still be issued.
// A payment is refunded at most once.
func (p *Payment) MayRefund() bool {
	return p.Status == PaymentStatusCompleted && !p.IsRefunded()
}

// NetAmount returns the payment amount minus any refunded portion
func (p *Payment) NetAmount() float64 {
	return roundCents(p.Amount - p.RefundedAmount)
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID              uint       `json:"id"`
	InvoiceID       uint       `json:"invoice_id"`
	ClientID        uint       `json:"client_id"`
	ClientName      string     `json:"client_name,omitempty"`
	Amount          float64    `json:"amount"`
	NetAmount       float64    `json:"net_amount"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`
	PaidAt          time.Time  `json:"paid_at"`
	RefundedAmount  float64    `json:"refunded_amount"`
	RefundReason    *string    `json:"refund_reason,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	ReceiptNumber   *string    `json:"receipt_number,omitempty"`
	RecordedBy      string     `json:"recorded_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		ClientID:        p.ClientID,
		Amount:          p.Amount,
		NetAmount:       p.NetAmount(),
		Method:          p.Method,
		Status:          p.Status,
		ReferenceNumber: p.ReferenceNumber,
		PaidAt:          p.PaidAt,
		RefundedAmount:  p.RefundedAmount,
		RefundReason:    p.RefundReason,
		RefundedAt:      p.RefundedAt,
		ReceiptNumber:   p.ReceiptNumber,
		CreatedAt:       p.CreatedAt,
	}

	if p.Client.ID != 0 {
		resp.ClientName = p.Client.FullName
	}
	if p.RecordedBy != nil && p.RecordedBy.ID != 0 {
		resp.RecordedBy = p.RecordedBy.FullName
	}

	return resp
}
