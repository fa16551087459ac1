package models

import (
	"math"
	"time"
)

// Invoice represents a bill issued to a client for one or more appointments
type Invoice struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ClientID   uint       `gorm:"not null;index" json:"client_id"`
	Subtotal   float64    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate    float64    `gorm:"type:decimal(5,4);not null;default:0" json:"tax_rate"`
	Discount   float64    `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Total      float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	PaidAmount float64    `gorm:"type:decimal(10,2);not null;default:0" json:"paid_amount"`
	Status     string     `gorm:"default:unpaid;not null;index" json:"status"`
	Notes      *string    `gorm:"type:text" json:"notes"`
	IssuedAt   time.Time  `gorm:"not null;index" json:"issued_at"`
	OverdueAt  *time.Time `json:"overdue_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Client    Client            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	Payments  []Payment         `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusUnpaid        = "unpaid"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
)

// InvoiceLineItem is one billable entry on an invoice
type InvoiceLineItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceID     uint      `gorm:"not null;index" json:"invoice_id"`
	AppointmentID *uint     `gorm:"index" json:"appointment_id,omitempty"`
	Description   string    `gorm:"not null" json:"description"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for InvoiceLineItem
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// Amount returns the extended amount for the line item
func (li *InvoiceLineItem) Amount() float64 {
	return float64(li.Quantity) * li.UnitPrice
}

// RecalculateTotals recomputes subtotal, total and status from the line items.
// total = subtotal*(1+taxRate) - discount, never below zero.
func (i *Invoice) RecalculateTotals() {
	subtotal := 0.0
	for _, li := range i.LineItems {
		subtotal += li.Amount()
	}
	i.Subtotal = roundCents(subtotal)
	total := i.Subtotal*(1+i.TaxRate) - i.Discount
	if total < 0 {
		total = 0
	}
	i.Total = roundCents(total)
	i.Status = i.StatusForPaidAmount()
}

// TaxAmount returns the tax portion of the invoice
func (i *Invoice) TaxAmount() float64 {
	return roundCents(i.Subtotal * i.TaxRate)
}

// BalanceRemaining returns total minus what has been paid, clamped at zero
func (i *Invoice) BalanceRemaining() float64 {
	balance := i.Total - i.PaidAmount
	if balance < 0 {
		return 0
	}
	return roundCents(balance)
}

// StatusForPaidAmount derives the status from paid amount vs total
func (i *Invoice) StatusForPaidAmount() string {
	switch {
	case i.Total > 0 && i.PaidAmount >= i.Total-centsEpsilon:
		return InvoiceStatusPaid
	case i.PaidAmount > centsEpsilon:
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusUnpaid
	}
}

// IsPaid returns true if the invoice is fully paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// MayReceivePayment returns true if the invoice still has a balance to collect
func (i *Invoice) MayReceivePayment() bool {
	return i.BalanceRemaining() > 0
}

// amounts are compared with a half-cent tolerance to absorb float rounding
const centsEpsilon = 0.005

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID               uint                      `json:"id"`
	ClientID         uint                      `json:"client_id"`
	ClientName       string                    `json:"client_name,omitempty"`
	Subtotal         float64                   `json:"subtotal"`
	TaxRate          float64                   `json:"tax_rate"`
	TaxAmount        float64                   `json:"tax_amount"`
	Discount         float64                   `json:"discount"`
	Total            float64                   `json:"total"`
	PaidAmount       float64                   `json:"paid_amount"`
	BalanceRemaining float64                   `json:"balance_remaining"`
	Status           string                    `json:"status"`
	Notes            *string                   `json:"notes,omitempty"`
	IssuedAt         time.Time                 `json:"issued_at"`
	OverdueAt        *time.Time                `json:"overdue_at,omitempty"`
	LineItems        []InvoiceLineItemResponse `json:"line_items,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// InvoiceLineItemResponse is the JSON response format for line items
type InvoiceLineItemResponse struct {
	ID            uint    `json:"id"`
	AppointmentID *uint   `json:"appointment_id,omitempty"`
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Amount        float64 `json:"amount"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:               i.ID,
		ClientID:         i.ClientID,
		Subtotal:         i.Subtotal,
		TaxRate:          i.TaxRate,
		TaxAmount:        i.TaxAmount(),
		Discount:         i.Discount,
		Total:            i.Total,
		PaidAmount:       i.PaidAmount,
		BalanceRemaining: i.BalanceRemaining(),
		Status:           i.Status,
		Notes:            i.Notes,
		IssuedAt:         i.IssuedAt,
		OverdueAt:        i.OverdueAt,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}

	if i.Client.ID != 0 {
		resp.ClientName = i.Client.FullName
	}

	for _, li := range i.LineItems {
		resp.LineItems = append(resp.LineItems, InvoiceLineItemResponse{
			ID:            li.ID,
			AppointmentID: li.AppointmentID,
			Description:   li.Description,
			Quantity:      li.Quantity,
			UnitPrice:     li.UnitPrice,
			Amount:        li.Amount(),
		})
	}

	return resp
}
