package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/serenispa/serenity-api/internal/models"
)

// InvoiceFSM wraps an invoice with its payment-status state machine.
// The status is a function of paid amount vs total; the machine enforces
// that only legal transitions are ever written back to the invoice,
// including the refund back-transitions from paid.
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	ifsm := &InvoiceFSM{
		invoice: invoice,
	}

	ifsm.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// unpaid/partially_paid -> partially_paid
			{Name: "partial_payment", Src: []string{models.InvoiceStatusUnpaid, models.InvoiceStatusPartiallyPaid}, Dst: models.InvoiceStatusPartiallyPaid},

			// unpaid/partially_paid -> paid
			{Name: "full_payment", Src: []string{models.InvoiceStatusUnpaid, models.InvoiceStatusPartiallyPaid}, Dst: models.InvoiceStatusPaid},

			// paid/partially_paid -> partially_paid (refund leaves a balance due)
			{Name: "partial_refund", Src: []string{models.InvoiceStatusPaid, models.InvoiceStatusPartiallyPaid}, Dst: models.InvoiceStatusPartiallyPaid},

			// paid/partially_paid -> unpaid (refund wipes out everything paid)
			{Name: "full_refund", Src: []string{models.InvoiceStatusPaid, models.InvoiceStatusPartiallyPaid}, Dst: models.InvoiceStatusUnpaid},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// ApplyPaidAmount transitions the invoice to the status implied by its
// current paid amount. It is called after the ledger mutates PaidAmount,
// for both payments and refunds.
func (i *InvoiceFSM) ApplyPaidAmount(ctx context.Context) error {
	target := i.invoice.StatusForPaidAmount()
	if target == i.fsm.Current() {
		i.invoice.Status = target
		return nil
	}

	event, err := i.eventFor(target)
	if err != nil {
		return err
	}

	if err := i.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("invalid invoice status transition %s -> %s: %w", i.invoice.Status, target, err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

func (i *InvoiceFSM) eventFor(target string) (string, error) {
	current := i.fsm.Current()
	refunding := current == models.InvoiceStatusPaid ||
		(current == models.InvoiceStatusPartiallyPaid && target == models.InvoiceStatusUnpaid)

	switch target {
	case models.InvoiceStatusPaid:
		return "full_payment", nil
	case models.InvoiceStatusPartiallyPaid:
		if refunding {
			return "partial_refund", nil
		}
		return "partial_payment", nil
	case models.InvoiceStatusUnpaid:
		return "full_refund", nil
	}
	return "", fmt.Errorf("unknown invoice status: %s", target)
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InvoiceFSM) Can(event string) bool {
	return i.fsm.Can(event)
}
