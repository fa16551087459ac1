package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/models"
)

func TestApplyPaidAmountLifecycle(t *testing.T) {
	invoice := &models.Invoice{Total: 100.00, PaidAmount: 0, Status: models.InvoiceStatusUnpaid}
	machine := NewInvoiceFSM(invoice)

	// Partial payment
	invoice.PaidAmount = 40.00
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	// Second partial payment keeps the same status
	invoice.PaidAmount = 60.00
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	// Final payment settles it
	invoice.PaidAmount = 100.00
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestApplyPaidAmountDirectToPaid(t *testing.T) {
	invoice := &models.Invoice{Total: 86.40, PaidAmount: 86.40, Status: models.InvoiceStatusUnpaid}
	machine := NewInvoiceFSM(invoice)

	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestApplyPaidAmountFullRefund(t *testing.T) {
	invoice := &models.Invoice{Total: 100.00, PaidAmount: 100.00, Status: models.InvoiceStatusPaid}
	machine := NewInvoiceFSM(invoice)

	invoice.PaidAmount = 0
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
}

func TestApplyPaidAmountPartialRefund(t *testing.T) {
	invoice := &models.Invoice{Total: 100.00, PaidAmount: 100.00, Status: models.InvoiceStatusPaid}
	machine := NewInvoiceFSM(invoice)

	invoice.PaidAmount = 60.00
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	// Refunding the rest drops it back to unpaid
	invoice.PaidAmount = 0
	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
}

func TestApplyPaidAmountNoChangeIsNoop(t *testing.T) {
	invoice := &models.Invoice{Total: 100.00, PaidAmount: 40.00, Status: models.InvoiceStatusPartiallyPaid}
	machine := NewInvoiceFSM(invoice)

	assert.NoError(t, machine.ApplyPaidAmount(context.Background()))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, machine.Current())
}

func TestCanReportsLegalEvents(t *testing.T) {
	unpaid := NewInvoiceFSM(&models.Invoice{Status: models.InvoiceStatusUnpaid})
	assert.True(t, unpaid.Can("partial_payment"))
	assert.True(t, unpaid.Can("full_payment"))
	assert.False(t, unpaid.Can("partial_refund"))
	assert.False(t, unpaid.Can("full_refund"))

	paid := NewInvoiceFSM(&models.Invoice{Status: models.InvoiceStatusPaid})
	assert.False(t, paid.Can("partial_payment"))
	assert.False(t, paid.Can("full_payment"))
	assert.True(t, paid.Can("partial_refund"))
	assert.True(t, paid.Can("full_refund"))
}
