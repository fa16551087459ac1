package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/serenispa/serenity-api/internal/models"
)

// ExportService renders reports into downloadable formats
type ExportService struct {
	reportSvc *ReportService
}

func NewExportService(reportSvc *ReportService) *ExportService {
	return &ExportService{reportSvc: reportSvc}
}

// ExportProfitLossXLSX builds a spreadsheet of the period's P&L
func (s *ExportService) ExportProfitLossXLSX(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	report, err := s.reportSvc.ProfitLoss(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Profit & Loss"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Profit & Loss Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("%s to %s",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))

	row := 4
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Income")
	row++
	for _, category := range sortedKeys(report.IncomeByCategory) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), category)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.IncomeByCategory[category])
		row++
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total Income")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.TotalIncome)
	row += 2

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Expenses")
	row++
	for _, category := range sortedKeys(report.ExpensesByCategory) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), category)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.ExpensesByCategory[category])
		row++
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total Expenses")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.TotalExpenses)
	row += 2

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Net Profit")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.NetProfit)
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Profit Margin %")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.ProfitMargin)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("profit_loss_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportCashFlowCSV builds a CSV of the period's cash flow by method
func (s *ExportService) ExportCashFlowCSV(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	report, err := s.reportSvc.CashFlow(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Cash Flow Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Method", "Cash In", "Cash Out", "Net", "Transactions"})

	methods := make([]string, 0, len(report.ByMethod))
	for method := range report.ByMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		flow := report.ByMethod[method]
		_ = writer.Write([]string{
			method,
			fmt.Sprintf("%.2f", flow.CashIn),
			fmt.Sprintf("%.2f", flow.CashOut),
			fmt.Sprintf("%.2f", flow.Net),
			fmt.Sprintf("%d", flow.TransactionCount),
		})
	}
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Total Cash In", fmt.Sprintf("%.2f", report.TotalCashIn)})
	_ = writer.Write([]string{"Total Cash Out", fmt.Sprintf("%.2f", report.TotalCashOut)})
	_ = writer.Write([]string{"Net Cash Flow", fmt.Sprintf("%.2f", report.NetCashFlow)})

	writer.Flush()

	filename := fmt.Sprintf("cash_flow_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportTransactionsXLSX dumps ledger entries for a period into a spreadsheet
func (s *ExportService) ExportTransactionsXLSX(ctx context.Context, transactions []models.Transaction) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Date", "Type", "Category", "Description", "Amount", "Method", "Receipt", "Auto"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i := range transactions {
		t := &transactions[i]
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.Type)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.Category)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.Description)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.Amount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), t.PaymentMethod)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), t.HasReceipt())
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), t.Auto)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
