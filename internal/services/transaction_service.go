package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/storage"
)

// TransactionService handles manual ledger entries. Payment and refund
// activity writes its own rows; this service covers expenses and
// off-system income entered by staff.
type TransactionService struct {
	repo     repository.TransactionRepository
	storage  *storage.LocalStorage
	auditSvc *AuditService
}

func NewTransactionService(repo repository.TransactionRepository, store *storage.LocalStorage, auditSvc *AuditService) *TransactionService {
	return &TransactionService{repo: repo, storage: store, auditSvc: auditSvc}
}

func (s *TransactionService) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return transaction, nil
}

func (s *TransactionService) List(ctx context.Context, query *repository.ListQuery) ([]models.Transaction, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *TransactionService) FindByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	return s.repo.FindByDateRange(ctx, start, end)
}

func (s *TransactionService) Create(ctx context.Context, transaction *models.Transaction, actorID uint, ip, userAgent string) error {
	if transaction.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !models.ValidTransactionType(transaction.Type) {
		return fmt.Errorf("invalid transaction type: %s", transaction.Type)
	}
	if !models.ValidCategory(transaction.Type, transaction.Category) {
		return fmt.Errorf("category %s is not valid for %s transactions", transaction.Category, transaction.Type)
	}
	if transaction.Date.IsZero() {
		transaction.Date = time.Now()
	}
	transaction.Auto = false

	if err := s.repo.Create(ctx, transaction); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "Transaction", transaction.ID,
		fmt.Sprintf("%s of %.2f recorded (%s)", transaction.Type, transaction.Amount, transaction.Category), ip, userAgent)
}

func (s *TransactionService) Update(ctx context.Context, transaction *models.Transaction, actorID uint, ip, userAgent string) error {
	existing, err := s.repo.FindByID(ctx, transaction.ID)
	if err != nil {
		return ErrNotFound
	}
	// Ledger rows written by the payment pipeline are immutable
	if existing.Auto {
		return ErrInvalidState
	}
	if transaction.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !models.ValidCategory(transaction.Type, transaction.Category) {
		return fmt.Errorf("category %s is not valid for %s transactions", transaction.Category, transaction.Type)
	}

	if err := s.repo.Update(ctx, transaction); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Transaction", transaction.ID,
		"Ledger entry updated", ip, userAgent)
}

func (s *TransactionService) Delete(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.Auto {
		return ErrInvalidState
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionDelete, "Transaction", id, "Ledger entry deleted", ip, userAgent)
}

// AttachReceipt stores a receipt image or PDF against an expense so the
// tax report stops flagging it.
func (s *TransactionService) AttachReceipt(ctx context.Context, id uint, file multipart.File, header *multipart.FileHeader, actorID uint, ip, userAgent string) (*models.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	path, err := s.storage.Upload(file, header, "expense_receipts")
	if err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	transaction.ReceiptPath = &path
	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Transaction", id, "Receipt attached", ip, userAgent)
	return transaction, nil
}
