package repository

import (
	"context"
	"time"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Invoice, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateTx(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
	FindUnpaidOlderThan(ctx context.Context, cutoff time.Time) ([]models.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("LineItems").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate loads an invoice inside tx with a row lock so that the
// paid amount cannot be mutated concurrently while a payment is applied.
func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := tx.WithContext(ctx).
		Clauses(forUpdateClause()).
		Preload("LineItems").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("client_id = ?", clientID).
		Order("issued_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) UpdateTx(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error {
	return tx.WithContext(ctx).Omit("LineItems", "Client", "Payments").Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("issued_at >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("issued_at <= ?", query.Filters["end_date"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("issued_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Preload("LineItems").Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) FindUnpaidOlderThan(ctx context.Context, cutoff time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("status IN ? AND issued_at < ? AND overdue_at IS NULL",
			[]string{models.InvoiceStatusUnpaid, models.InvoiceStatusPartiallyPaid}, cutoff).
		Find(&invoices).Error
	return invoices, err
}
