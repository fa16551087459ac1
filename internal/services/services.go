package services

import (
	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/jobs"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Client       *ClientService
	Appointment  *AppointmentService
	SOAPNote     *SOAPNoteService
	Invoice      *InvoiceService
	Payment      *PaymentService
	Receipt      *ReceiptService
	Transaction  *TransactionService
	Notification *NotificationService
	Report       *ReportService
	Export       *ExportService
	Audit        *AuditService
	Email        *EmailService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, gw gateway.Gateway, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	reportSvc := NewReportService(repos.Transaction, repos.Invoice, repos.Client)
	jobSvc := NewJobService(worker)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, auditSvc, cfg),
		User:         NewUserService(repos.User, worker, emailSvc, auditSvc),
		Client:       NewClientService(repos.Client, auditSvc),
		Appointment:  NewAppointmentService(repos.Appointment, repos.Client, repos.User, notificationSvc, emailSvc, auditSvc, worker),
		SOAPNote:     NewSOAPNoteService(repos.SOAPNote, repos.Appointment, auditSvc),
		Invoice:      NewInvoiceService(db, repos.Invoice, repos.Appointment, repos.Client, auditSvc),
		Payment:      NewPaymentService(db, repos.Payment, repos.Invoice, repos.Transaction, repos.Client, notificationSvc, emailSvc, auditSvc, gw, worker),
		Receipt:      NewReceiptService(repos.Receipt, repos.Payment, repos.Invoice, repos.Client, store, emailSvc, worker),
		Transaction:  NewTransactionService(repos.Transaction, store, auditSvc),
		Notification: notificationSvc,
		Report:       reportSvc,
		Export:       NewExportService(reportSvc),
		Audit:        auditSvc,
		Email:        emailSvc,
		Job:          jobSvc,
	}
}
