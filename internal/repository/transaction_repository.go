package repository

import (
	"context"
	"time"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository defines the interface for income/expense ledger access
type TransactionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error)
	FindByTypeAndRange(ctx context.Context, transactionType string, start, end time.Time) ([]models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateTx(ctx context.Context, tx *gorm.DB, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) FindByTypeAndRange(ctx context.Context, transactionType string, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("type = ? AND date >= ? AND date <= ?", transactionType, start, end).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) CreateTx(ctx context.Context, tx *gorm.DB, transaction *models.Transaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}

func (r *transactionRepository) List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}
	if query.Filters["category"] != "" {
		db = db.Where("category = ?", query.Filters["category"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("date >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("date <= ?", query.Filters["end_date"])
	}
	if query.Search != "" {
		db = db.Where("description ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("date DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&transactions).Error
	return transactions, total, err
}
