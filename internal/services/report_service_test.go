package services

import (
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// Mock TransactionRepository (embedding to avoid implementing all methods)
type mockTransactionRepository struct {
	repository.TransactionRepository
	mockFindByDateRange func(ctx context.Context, start, end time.Time) ([]models.Transaction, error)
}

func (m *mockTransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	if m.mockFindByDateRange != nil {
		return m.mockFindByDateRange(ctx, start, end)
	}
	return nil, nil
}

// Mock PaymentRepository
type mockPaymentRepository struct {
	repository.PaymentRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Payment, error)
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, QuarterOf(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, QuarterOf(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, QuarterOf(time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, QuarterOf(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestPreviousQuarter(t *testing.T) {
	year, quarter := PreviousQuarter(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 2, quarter)

	// January wraps back to Q4 of the prior year
	year, quarter = PreviousQuarter(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, year)
	assert.Equal(t, 4, quarter)

	year, quarter = PreviousQuarter(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, year)
	assert.Equal(t, 4, quarter)
}

func TestQuarterRange(t *testing.T) {
	start, end := QuarterRange(2026, 1)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = QuarterRange(2025, 4)
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestProfitLoss(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		return []models.Transaction{
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 800.00},
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryProducts, Amount: 200.00},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategoryRent, Amount: 400.00},
		}, nil
	}

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)
	report, err := service.ProfitLoss(context.Background(), start, end)

	assert.NoError(t, err)
	assert.Equal(t, 1000.00, report.TotalIncome)
	assert.Equal(t, 400.00, report.TotalExpenses)
	assert.Equal(t, 600.00, report.NetProfit)
	assert.Equal(t, 60.00, report.ProfitMargin)
	assert.Equal(t, 800.00, report.IncomeByCategory[models.IncomeCategoryServices])
	assert.Equal(t, 400.00, report.ExpensesByCategory[models.ExpenseCategoryRent])
}

func TestProfitLossZeroIncome(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		return []models.Transaction{
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategorySupplies, Amount: 250.00},
		}, nil
	}

	report, err := service.ProfitLoss(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 0.00, report.TotalIncome)
	assert.Equal(t, -250.00, report.NetProfit)
	// No income means margin is reported as zero, not NaN or a panic
	assert.Equal(t, 0.00, report.ProfitMargin)
}

func TestCashFlowByMethod(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		return []models.Transaction{
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 86.40, PaymentMethod: models.PaymentMethodCard, Auto: true},
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 50.00, PaymentMethod: models.PaymentMethodCard, Auto: true},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategoryOther, Amount: 50.00, PaymentMethod: models.PaymentMethodCard, Auto: true},
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 100.00, PaymentMethod: models.PaymentMethodCash, Auto: true},
		}, nil
	}

	report, err := service.CashFlow(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 236.40, report.TotalCashIn)
	assert.Equal(t, 50.00, report.TotalCashOut)
	assert.Equal(t, 186.40, report.NetCashFlow)

	card := report.ByMethod[models.PaymentMethodCard]
	assert.Equal(t, 136.40, card.CashIn)
	assert.Equal(t, 50.00, card.CashOut)
	assert.Equal(t, 86.40, card.Net)
	assert.Equal(t, 3, card.TransactionCount)

	cash := report.ByMethod[models.PaymentMethodCash]
	assert.Equal(t, 100.00, cash.CashIn)
	assert.Equal(t, 0.00, cash.CashOut)
}

func TestCashFlowCountsManualExpenses(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		return []models.Transaction{
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 100.00, PaymentMethod: models.PaymentMethodCash, Auto: true},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategorySupplies, Amount: 400.00, PaymentMethod: models.PaymentMethodCash},
		}, nil
	}

	report, err := service.CashFlow(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 100.00, report.TotalCashIn)
	assert.Equal(t, 400.00, report.TotalCashOut)
	// A hand-entered expense drains cash just like a refund does
	assert.Equal(t, -300.00, report.NetCashFlow)

	cash := report.ByMethod[models.PaymentMethodCash]
	assert.Equal(t, -300.00, cash.Net)
	assert.Equal(t, 2, cash.TransactionCount)
}

func TestTaxSummary(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	receiptPath := "/receipts/rent-jan.pdf"
	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		assert.Equal(t, 2025, start.Year())
		assert.Equal(t, 2025, end.Year())
		return []models.Transaction{
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 5000.00, Taxable: true},
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryOther, Amount: 300.00, Taxable: false},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategoryRent, Amount: 1800.00, Deductible: true, ReceiptPath: &receiptPath},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategorySupplies, Amount: 240.50, Deductible: true},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategoryOther, Amount: 99.00, Deductible: false},
		}, nil
	}

	report, err := service.TaxSummary(context.Background(), 2025)

	assert.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 5300.00, report.TotalIncome)
	assert.Equal(t, 5000.00, report.TaxableIncome)
	assert.Equal(t, 2040.50, report.TotalDeductible)
	assert.Equal(t, 1, report.MissingReceiptCount)
	assert.Equal(t, 240.50, report.MissingReceiptAmount)
	assert.Len(t, report.MissingReceipts, 1)
	assert.Equal(t, models.ExpenseCategorySupplies, report.MissingReceipts[0].Category)
}

func TestGenerateProfitLossCSV(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockFindByDateRange = func(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
		return []models.Transaction{
			{Type: models.TransactionTypeIncome, Category: models.IncomeCategoryServices, Amount: 500.00},
			{Type: models.TransactionTypeExpense, Category: models.ExpenseCategoryRent, Amount: 200.00},
		}, nil
	}

	buf, err := service.GenerateProfitLossCSV(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	assert.NoError(t, err)
	assert.NotNil(t, buf)

	records, err := csv.NewReader(buf).ReadAll()
	assert.NoError(t, err)
	assert.Greater(t, len(records), 1, "expected header plus data rows")
}
