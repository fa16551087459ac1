package repository

import (
	"context"
	"time"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
)

// PaymentStats summarizes ledger activity for a month
type PaymentStats struct {
	Month          string  `json:"month"`
	TotalCollected float64 `json:"total_collected"`
	TotalRefunded  float64 `json:"total_refunded"`
	PaymentCount   int64   `json:"payment_count"`
	RefundCount    int64   `json:"refund_count"`
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	CreateTx(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	UpdateTx(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
	GetMonthlyStats(ctx context.Context) (*PaymentStats, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Invoice").
		Preload("Client").
		Preload("RecordedBy").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("invoice_id = ?", invoiceID).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Invoice").
		Where("client_id = ?", clientID).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

// FindByIDForUpdate loads a payment inside tx with a row lock so the
// refund fields cannot be mutated by a concurrent refund.
func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := tx.WithContext(ctx).
		Clauses(forUpdateClause()).
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) CreateTx(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit("Invoice", "Client", "RecordedBy").Save(payment).Error
}

func (r *paymentRepository) UpdateTx(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Omit("Invoice", "Client", "RecordedBy").Save(payment).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["method"] != "" {
		db = db.Where("method = ?", query.Filters["method"])
	}
	if query.Filters["invoice_id"] != "" {
		db = db.Where("invoice_id = ?", query.Filters["invoice_id"])
	}
	if query.Filters["client_id"] != "" {
		db = db.Where("client_id = ?", query.Filters["client_id"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("paid_at >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("paid_at <= ?", query.Filters["end_date"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("paid_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Preload("Invoice").Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) GetMonthlyStats(ctx context.Context) (*PaymentStats, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats PaymentStats
	stats.Month = monthStart.Format("2006-01")

	row := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount - refunded_amount), 0) AS total_collected, COALESCE(SUM(refunded_amount), 0) AS total_refunded, COUNT(*) AS payment_count").
		Where("paid_at >= ?", monthStart)

	if err := row.Scan(&stats).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("refunded_at >= ?", monthStart).
		Count(&stats.RefundCount).Error
	return &stats, err
}
