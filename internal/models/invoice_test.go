package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecalculateTotals(t *testing.T) {
	invoice := &Invoice{
		TaxRate:  0.08,
		Discount: 0,
		LineItems: []InvoiceLineItem{
			{Description: "Deep Tissue Massage (60 min)", Quantity: 1, UnitPrice: 80.00},
		},
	}

	invoice.RecalculateTotals()

	assert.Equal(t, 80.00, invoice.Subtotal)
	assert.Equal(t, 86.40, invoice.Total)
	assert.Equal(t, 6.40, invoice.TaxAmount())
	assert.Equal(t, InvoiceStatusUnpaid, invoice.Status)
}

func TestRecalculateTotalsWithDiscount(t *testing.T) {
	invoice := &Invoice{
		TaxRate:  0.08,
		Discount: 10.00,
		LineItems: []InvoiceLineItem{
			{Description: "Swedish Massage (60 min)", Quantity: 1, UnitPrice: 70.00},
			{Description: "Muscle Relief Balm", Quantity: 2, UnitPrice: 18.00},
		},
	}

	invoice.RecalculateTotals()

	assert.Equal(t, 106.00, invoice.Subtotal)
	// 106 * 1.08 - 10 = 104.48
	assert.Equal(t, 104.48, invoice.Total)
}

func TestRecalculateTotalsDiscountClampsToZero(t *testing.T) {
	invoice := &Invoice{
		TaxRate:  0.08,
		Discount: 500.00,
		LineItems: []InvoiceLineItem{
			{Description: "Chair Massage (15 min)", Quantity: 1, UnitPrice: 25.00},
		},
	}

	invoice.RecalculateTotals()

	assert.Equal(t, 0.00, invoice.Total)
	assert.Equal(t, 0.00, invoice.BalanceRemaining())
}

func TestStatusForPaidAmount(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		paidAmount float64
		expected   string
	}{
		{"nothing paid", 100.00, 0, InvoiceStatusUnpaid},
		{"partial payment", 100.00, 40.00, InvoiceStatusPartiallyPaid},
		{"paid in full", 100.00, 100.00, InvoiceStatusPaid},
		{"paid within rounding tolerance", 100.00, 99.999, InvoiceStatusPaid},
		{"zero total stays unpaid", 0, 0, InvoiceStatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := &Invoice{Total: tt.total, PaidAmount: tt.paidAmount}
			assert.Equal(t, tt.expected, invoice.StatusForPaidAmount())
		})
	}
}

func TestBalanceRemaining(t *testing.T) {
	invoice := &Invoice{Total: 86.40, PaidAmount: 50.00}
	assert.Equal(t, 36.40, invoice.BalanceRemaining())

	// Overpayment never reports a negative balance
	invoice.PaidAmount = 90.00
	assert.Equal(t, 0.00, invoice.BalanceRemaining())
}

func TestMayReceivePayment(t *testing.T) {
	invoice := &Invoice{Total: 86.40, PaidAmount: 86.40, Status: InvoiceStatusPaid}
	assert.False(t, invoice.MayReceivePayment())

	invoice.PaidAmount = 50.00
	assert.True(t, invoice.MayReceivePayment())
}

func TestLineItemAmount(t *testing.T) {
	li := &InvoiceLineItem{Quantity: 3, UnitPrice: 18.00}
	assert.Equal(t, 54.00, li.Amount())
}
