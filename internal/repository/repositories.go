package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Appointment  AppointmentRepository
	SOAPNote     SOAPNoteRepository
	Invoice      InvoiceRepository
	Payment      PaymentRepository
	Transaction  TransactionRepository
	Receipt      ReceiptRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Appointment:  NewAppointmentRepository(db),
		SOAPNote:     NewSOAPNoteRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Payment:      NewPaymentRepository(db),
		Transaction:  NewTransactionRepository(db),
		Receipt:      NewReceiptRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}

func forUpdateClause() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}
