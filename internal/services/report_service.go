package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// ProfitLossReport is income vs expenses for a period
type ProfitLossReport struct {
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	TotalIncome        float64            `json:"total_income"`
	TotalExpenses      float64            `json:"total_expenses"`
	NetProfit          float64            `json:"net_profit"`
	ProfitMargin       float64            `json:"profit_margin"`
	IncomeByCategory   map[string]float64 `json:"income_by_category"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}

// MethodFlow summarizes cash movement for one payment method
type MethodFlow struct {
	CashIn           float64 `json:"cash_in"`
	CashOut          float64 `json:"cash_out"`
	Net              float64 `json:"net"`
	TransactionCount int     `json:"transaction_count"`
}

// CashFlowReport breaks down cash in and out by payment method
type CashFlowReport struct {
	StartDate    time.Time             `json:"start_date"`
	EndDate      time.Time             `json:"end_date"`
	TotalCashIn  float64               `json:"total_cash_in"`
	TotalCashOut float64               `json:"total_cash_out"`
	NetCashFlow  float64               `json:"net_cash_flow"`
	ByMethod     map[string]MethodFlow `json:"by_method"`
}

// TaxReport aggregates a calendar year for tax preparation. Deductible
// expenses without an attached receipt are listed so they can be chased
// down before filing.
type TaxReport struct {
	Year                 int                          `json:"year"`
	TotalIncome          float64                      `json:"total_income"`
	TaxableIncome        float64                      `json:"taxable_income"`
	TotalDeductible      float64                      `json:"total_deductible"`
	DeductionsByCategory map[string]float64           `json:"deductions_by_category"`
	MissingReceipts      []models.TransactionResponse `json:"missing_receipts"`
	MissingReceiptCount  int                          `json:"missing_receipt_count"`
	MissingReceiptAmount float64                      `json:"missing_receipt_amount"`
}

type ReportService struct {
	transactionRepo repository.TransactionRepository
	invoiceRepo     repository.InvoiceRepository
	clientRepo      repository.ClientRepository
}

func NewReportService(
	transactionRepo repository.TransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		clientRepo:      clientRepo,
	}
}

// QuarterOf returns the calendar quarter (1-4) containing t
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// PreviousQuarter returns the quarter before the one containing now.
// January through March resolves to Q4 of the prior year.
func PreviousQuarter(now time.Time) (year, quarter int) {
	year = now.Year()
	quarter = QuarterOf(now) - 1
	if quarter == 0 {
		quarter = 4
		year--
	}
	return year, quarter
}

// QuarterRange returns the inclusive start and exclusive end of a quarter
func QuarterRange(year, quarter int) (start, end time.Time) {
	startMonth := time.Month((quarter-1)*3 + 1)
	start = time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 3, 0)
	return start, end
}

// ProfitLoss builds an income vs expense summary for the period.
// Margin is reported as zero when there is no income, not a division error.
func (s *ReportService) ProfitLoss(ctx context.Context, start, end time.Time) (*ProfitLossReport, error) {
	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &ProfitLossReport{
		StartDate:          start,
		EndDate:            end,
		IncomeByCategory:   make(map[string]float64),
		ExpensesByCategory: make(map[string]float64),
	}

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			report.TotalIncome += t.Amount
			report.IncomeByCategory[t.Category] += t.Amount
		case models.TransactionTypeExpense:
			report.TotalExpenses += t.Amount
			report.ExpensesByCategory[t.Category] += t.Amount
		}
	}

	report.TotalIncome = roundMoney(report.TotalIncome)
	report.TotalExpenses = roundMoney(report.TotalExpenses)
	report.NetProfit = roundMoney(report.TotalIncome - report.TotalExpenses)
	if report.TotalIncome > 0 {
		report.ProfitMargin = roundMoney(report.NetProfit / report.TotalIncome * 100)
	}

	return report, nil
}

// QuarterlyProfitLoss runs the P&L for one calendar quarter
func (s *ReportService) QuarterlyProfitLoss(ctx context.Context, year, quarter int) (*ProfitLossReport, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("quarter must be 1-4, got %d", quarter)
	}
	start, end := QuarterRange(year, quarter)
	return s.ProfitLoss(ctx, start, end.Add(-time.Nanosecond))
}

// CashFlow breaks the period's ledger down by payment method. Income
// rows count as cash in and expense rows as cash out, so manual
// expenses and the auto rows written for payments and refunds all land
// in the same report.
func (s *ReportService) CashFlow(ctx context.Context, start, end time.Time) (*CashFlowReport, error) {
	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &CashFlowReport{
		StartDate: start,
		EndDate:   end,
		ByMethod:  make(map[string]MethodFlow),
	}

	for i := range transactions {
		t := &transactions[i]
		method := t.PaymentMethod
		if method == "" {
			method = "unspecified"
		}
		flow := report.ByMethod[method]
		switch t.Type {
		case models.TransactionTypeIncome:
			flow.CashIn = roundMoney(flow.CashIn + t.Amount)
			report.TotalCashIn = roundMoney(report.TotalCashIn + t.Amount)
		case models.TransactionTypeExpense:
			flow.CashOut = roundMoney(flow.CashOut + t.Amount)
			report.TotalCashOut = roundMoney(report.TotalCashOut + t.Amount)
		default:
			continue
		}
		flow.TransactionCount++
		report.ByMethod[method] = flow
	}

	for method, flow := range report.ByMethod {
		flow.Net = roundMoney(flow.CashIn - flow.CashOut)
		report.ByMethod[method] = flow
	}
	report.NetCashFlow = roundMoney(report.TotalCashIn - report.TotalCashOut)

	return report, nil
}

// TaxSummary builds the annual tax report for a calendar year
func (s *ReportService) TaxSummary(ctx context.Context, year int) (*TaxReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	transactions, err := s.transactionRepo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &TaxReport{
		Year:                 year,
		DeductionsByCategory: make(map[string]float64),
	}

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			report.TotalIncome += t.Amount
			if t.Taxable {
				report.TaxableIncome += t.Amount
			}
		case models.TransactionTypeExpense:
			if !t.Deductible {
				continue
			}
			report.TotalDeductible += t.Amount
			report.DeductionsByCategory[t.Category] += t.Amount
			if !t.HasReceipt() {
				report.MissingReceipts = append(report.MissingReceipts, t.ToResponse())
				report.MissingReceiptAmount += t.Amount
			}
		}
	}

	report.TotalIncome = roundMoney(report.TotalIncome)
	report.TaxableIncome = roundMoney(report.TaxableIncome)
	report.TotalDeductible = roundMoney(report.TotalDeductible)
	report.MissingReceiptAmount = roundMoney(report.MissingReceiptAmount)
	report.MissingReceiptCount = len(report.MissingReceipts)

	return report, nil
}

// GenerateProfitLossCSV renders the P&L as CSV for download
func (s *ReportService) GenerateProfitLossCSV(ctx context.Context, start, end time.Time) (*bytes.Buffer, error) {
	report, err := s.ProfitLoss(ctx, start, end)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write([]string{"Category", "Type", "Amount"}); err != nil {
		return nil, err
	}
	for category, amount := range report.IncomeByCategory {
		if err := w.Write([]string{category, "income", fmt.Sprintf("%.2f", amount)}); err != nil {
			return nil, err
		}
	}
	for category, amount := range report.ExpensesByCategory {
		if err := w.Write([]string{category, "expense", fmt.Sprintf("%.2f", amount)}); err != nil {
			return nil, err
		}
	}
	w.Write([]string{"Total Income", "", fmt.Sprintf("%.2f", report.TotalIncome)})
	w.Write([]string{"Total Expenses", "", fmt.Sprintf("%.2f", report.TotalExpenses)})
	w.Write([]string{"Net Profit", "", fmt.Sprintf("%.2f", report.NetProfit)})
	w.Write([]string{"Profit Margin %", "", fmt.Sprintf("%.2f", report.ProfitMargin)})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateTaxReportCSV renders the annual tax summary as CSV
func (s *ReportService) GenerateTaxReportCSV(ctx context.Context, year int) (*bytes.Buffer, error) {
	report, err := s.TaxSummary(ctx, year)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	w.Write([]string{"Tax Report", fmt.Sprintf("%d", report.Year)})
	w.Write([]string{"Total Income", fmt.Sprintf("%.2f", report.TotalIncome)})
	w.Write([]string{"Taxable Income", fmt.Sprintf("%.2f", report.TaxableIncome)})
	w.Write([]string{"Total Deductible", fmt.Sprintf("%.2f", report.TotalDeductible)})
	w.Write([]string{})
	w.Write([]string{"Deductions by Category"})
	for category, amount := range report.DeductionsByCategory {
		w.Write([]string{category, fmt.Sprintf("%.2f", amount)})
	}
	w.Write([]string{})
	w.Write([]string{"Deductions Missing Receipts", fmt.Sprintf("%d", report.MissingReceiptCount)})
	for _, t := range report.MissingReceipts {
		w.Write([]string{t.Date.Format("2006-01-02"), t.Category, t.Description, fmt.Sprintf("%.2f", t.Amount)})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateInvoicePDF renders a printable invoice from the HTML template
func (s *ReportService) GenerateInvoicePDF(ctx context.Context, invoiceID uint) (*bytes.Buffer, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, ErrNotFound
	}
	client, err := s.clientRepo.FindByID(ctx, invoice.ClientID)
	if err != nil {
		return nil, ErrNotFound
	}

	type lineData struct {
		Description string
		Quantity    int
		UnitPrice   string
		Amount      string
	}
	lines := make([]lineData, 0, len(invoice.LineItems))
	for _, li := range invoice.LineItems {
		lines = append(lines, lineData{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   fmt.Sprintf("$%.2f", li.UnitPrice),
			Amount:      fmt.Sprintf("$%.2f", li.Amount()),
		})
	}

	data := struct {
		InvoiceID  uint
		ClientName string
		IssuedAt   string
		Status     string
		Lines      []lineData
		Subtotal   string
		TaxRate    string
		TaxAmount  string
		Discount   string
		Total      string
		PaidAmount string
		Balance    string
	}{
		InvoiceID:  invoice.ID,
		ClientName: client.FullName,
		IssuedAt:   invoice.IssuedAt.Format("January 2, 2006"),
		Status:     invoice.Status,
		Lines:      lines,
		Subtotal:   fmt.Sprintf("$%.2f", invoice.Subtotal),
		TaxRate:    fmt.Sprintf("%.2f%%", invoice.TaxRate*100),
		TaxAmount:  fmt.Sprintf("$%.2f", invoice.TaxAmount()),
		Discount:   fmt.Sprintf("$%.2f", invoice.Discount),
		Total:      fmt.Sprintf("$%.2f", invoice.Total),
		PaidAmount: fmt.Sprintf("$%.2f", invoice.PaidAmount),
		Balance:    fmt.Sprintf("$%.2f", invoice.BalanceRemaining()),
	}

	return s.generatePDF("invoice.html", data)
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
