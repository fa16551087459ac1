package models

import (
	"time"
)

// Transaction is a row in the practice's income/expense ledger. Payment and
// refund activity writes income rows automatically (Auto=true); expenses and
// off-system income are entered manually.
type Transaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Type          string    `gorm:"not null;index" json:"type"`
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Category      string    `gorm:"not null;index" json:"category"`
	Description   string    `gorm:"not null" json:"description"`
	Source        *string   `json:"source,omitempty"`
	PaymentMethod string    `gorm:"index" json:"payment_method"`
	Taxable       bool      `gorm:"default:true" json:"taxable"`
	Deductible    bool      `gorm:"default:false" json:"deductible"`
	ReceiptPath   *string   `json:"-"`
	Auto          bool      `gorm:"default:false;index" json:"auto"`
	PaymentID     *uint     `gorm:"index" json:"payment_id,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// Transaction type constants
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Income category constants
const (
	IncomeCategoryServices = "services"
	IncomeCategoryProducts = "products"
	IncomeCategoryGiftCard = "gift_card"
	IncomeCategoryPackages = "packages"
	IncomeCategoryOther    = "other_income"
)

// Expense category constants
const (
	ExpenseCategoryRent      = "rent"
	ExpenseCategorySupplies  = "supplies"
	ExpenseCategoryEquipment = "equipment"
	ExpenseCategoryUtilities = "utilities"
	ExpenseCategoryMarketing = "marketing"
	ExpenseCategoryInsurance = "insurance"
	ExpenseCategoryEducation = "education"
	ExpenseCategoryPayroll   = "payroll"
	ExpenseCategoryLicensing = "licensing"
	ExpenseCategoryOther     = "other_expense"
)

// ValidTransactionType reports whether t is income or expense
func ValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ValidCategory reports whether category belongs to the given transaction type
func ValidCategory(transactionType, category string) bool {
	switch transactionType {
	case TransactionTypeIncome:
		switch category {
		case IncomeCategoryServices, IncomeCategoryProducts, IncomeCategoryGiftCard,
			IncomeCategoryPackages, IncomeCategoryOther:
			return true
		}
	case TransactionTypeExpense:
		switch category {
		case ExpenseCategoryRent, ExpenseCategorySupplies, ExpenseCategoryEquipment,
			ExpenseCategoryUtilities, ExpenseCategoryMarketing, ExpenseCategoryInsurance,
			ExpenseCategoryEducation, ExpenseCategoryPayroll, ExpenseCategoryLicensing,
			ExpenseCategoryOther:
			return true
		}
	}
	return false
}

// HasReceipt returns true if an attachment is stored for this transaction
func (t *Transaction) HasReceipt() bool {
	return t.ReceiptPath != nil && *t.ReceiptPath != ""
}

// TransactionResponse is the JSON response format for transactions
type TransactionResponse struct {
	ID            uint      `json:"id"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Source        *string   `json:"source,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Taxable       bool      `json:"taxable"`
	Deductible    bool      `json:"deductible"`
	HasReceipt    bool      `json:"has_receipt"`
	Auto          bool      `json:"auto"`
	PaymentID     *uint     `json:"payment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Type:          t.Type,
		Date:          t.Date,
		Amount:        t.Amount,
		Category:      t.Category,
		Description:   t.Description,
		Source:        t.Source,
		PaymentMethod: t.PaymentMethod,
		Taxable:       t.Taxable,
		Deductible:    t.Deductible,
		HasReceipt:    t.HasReceipt(),
		Auto:          t.Auto,
		PaymentID:     t.PaymentID,
		CreatedAt:     t.CreatedAt,
	}
}
