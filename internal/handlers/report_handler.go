package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serenispa/serenity-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// @Summary Profit and Loss
// @Description Profit and loss statement for a date range. Use format=csv or format=xlsx for a download.
// @Tags Reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param format query string false "Output format (json, csv, xlsx)" default(json)
// @Success 200 {object} services.ProfitLossReport
// @Security BearerAuth
// @Router /reports/profit_loss [get]
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		buf, err := h.reportService.GenerateProfitLossCSV(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=profit_loss.csv")
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		data, filename, err := h.exportService.ExportProfitLossXLSX(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		report, err := h.reportService.ProfitLoss(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// @Summary Quarterly Profit and Loss
// @Description Profit and loss for a calendar quarter. Defaults to the most recently closed quarter.
// @Tags Reports
// @Produce json
// @Param year query int false "Year"
// @Param quarter query int false "Quarter (1-4)"
// @Success 200 {object} services.ProfitLossReport
// @Security BearerAuth
// @Router /reports/profit_loss/quarterly [get]
func (h *ReportHandler) QuarterlyProfitLoss(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	quarter, _ := strconv.Atoi(c.Query("quarter"))
	if year == 0 || quarter == 0 {
		year, quarter = services.PreviousQuarter(time.Now())
	}

	report, err := h.reportService.QuarterlyProfitLoss(c.Request.Context(), year, quarter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Cash Flow
// @Description Cash in and out by payment method for a date range. Use format=csv for a download.
// @Tags Reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param format query string false "Output format (json, csv)" default(json)
// @Success 200 {object} services.CashFlowReport
// @Security BearerAuth
// @Router /reports/cash_flow [get]
func (h *ReportHandler) CashFlow(c *gin.Context) {
	start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.DefaultQuery("format", "json") == "csv" {
		data, filename, err := h.exportService.ExportCashFlowCSV(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	report, err := h.reportService.CashFlow(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Tax Report
// @Description Taxable income, deductible expenses, and expense entries missing
// receipts for a tax year. Use format=csv for a download.
// @Tags Reports
// @Produce json
// @Param year query int false "Tax year (defaults to current year)"
// @Param format query string false "Output format (json, csv)" default(json)
// @Success 200 {object} services.TaxReport
// @Security BearerAuth
// @Router /reports/tax [get]
func (h *ReportHandler) Tax(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	if year == 0 {
		year = time.Now().Year()
	}

	if c.DefaultQuery("format", "json") == "csv" {
		buf, err := h.reportService.GenerateTaxReportCSV(c.Request.Context(), year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=tax_report_%d.csv", year))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	report, err := h.reportService.TaxSummary(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
