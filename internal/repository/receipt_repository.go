package repository

import (
	"context"
	"errors"

	"github.com/serenispa/serenity-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptRepository allocates sequential receipt numbers from a persisted,
// per-year counter.
type ReceiptRepository interface {
	NextNumber(ctx context.Context, year int) (string, error)
	CurrentValue(ctx context.Context, year int) (int, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// NextNumber increments the counter for the given year and returns the
// formatted receipt number. The row is locked for the duration of the
// transaction so two concurrent requests never share a number.
func (r *receiptRepository) NextNumber(ctx context.Context, year int) (string, error) {
	var number string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq models.ReceiptSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = models.ReceiptSequence{Year: year, LastValue: 0}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastValue++
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}

		number = models.FormatReceiptNumber(year, seq.LastValue)
		return nil
	})

	return number, err
}

func (r *receiptRepository) CurrentValue(ctx context.Context, year int) (int, error) {
	var seq models.ReceiptSequence
	err := r.db.WithContext(ctx).Where("year = ?", year).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}
