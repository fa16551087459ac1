package handlers

import (
	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/services"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Appointment  *AppointmentHandler
	SOAPNote     *SOAPNoteHandler
	Invoice      *InvoiceHandler
	Payment      *PaymentHandler
	Receipt      *ReceiptHandler
	Transaction  *TransactionHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handlers wired to their services
func NewHandlers(svcs *services.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Client:       NewClientHandler(svcs.Client, svcs.Appointment, svcs.Invoice),
		Appointment:  NewAppointmentHandler(svcs.Appointment),
		SOAPNote:     NewSOAPNoteHandler(svcs.SOAPNote),
		Invoice:      NewInvoiceHandler(svcs.Invoice, svcs.Payment, svcs.Report, cfg.DefaultTaxRate),
		Payment:      NewPaymentHandler(svcs.Payment),
		Receipt:      NewReceiptHandler(svcs.Receipt),
		Transaction:  NewTransactionHandler(svcs.Transaction, svcs.Export),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
