package handlers

import (
	"net/http"
	"strings"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"
	"vivero-api/internal/receipt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MonthlyProfitGoal drives the progress gauge on the monthly report.
var MonthlyProfitGoal = decimal.NewFromInt(3000)

// --- GET: /api/reports/frequency?frequency=diario|semanal|mensual ---
// Sales grouped by calendar day over the requested window.
func GetFrequencyReport(c *gin.Context) {
	frequency := strings.ToLower(c.Query("frequency"))

	end := time.Now()
	var start time.Time
	switch frequency {
	case "diario":
		start = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	case "semanal":
		start = end.AddDate(0, 0, -7)
	case "mensual":
		start = end.AddDate(0, -1, 0)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frecuencia inválida. Usa diario, semanal o mensual."})
		return
	}

	rows, err := database.SalesByDay(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se encontraron datos para la frecuencia seleccionada."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"frequency": frequency, "rows": rows})
}

// --- GET: Profit history, newest first ---
func GetProfitHistory(c *gin.Context) {
	var entries []models.ProfitHistory
	if err := database.DB.Order("recorded_at desc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profit history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- GET: Current month's profits grouped by day, with goal progress ---
func GetMonthlyProfits(c *gin.Context) {
	now := time.Now()

	rows, err := database.ProfitsByDay(now.Year(), now.Month())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate profits"})
		return
	}

	monthTotal := decimal.Zero
	for _, r := range rows {
		monthTotal = monthTotal.Add(r.Total)
	}

	progress := decimal.Zero
	if MonthlyProfitGoal.IsPositive() {
		progress = monthTotal.Div(MonthlyProfitGoal).Mul(decimal.NewFromInt(100)).Round(2)
	}

	c.JSON(http.StatusOK, gin.H{
		"days":          rows,
		"month_total":   monthTotal,
		"goal":          MonthlyProfitGoal,
		"goal_progress": progress,
	})
}

// --- GET: Top-10 best sellers ---
func GetTopSellers(c *gin.Context) {
	rows, err := database.TopSellers(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: Full sales-per-day series ---
func GetSalesPerDay(c *gin.Context) {
	var oldest models.Sale
	if err := database.DB.Order("sold_at asc").First(&oldest).Error; err != nil {
		c.JSON(http.StatusOK, []database.DailySales{})
		return
	}

	rows, err := database.SalesByDay(oldest.SoldAt, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build series"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: Download the current month's daily profits as PDF ---
func ExportProfitsPDF(c *gin.Context) {
	now := time.Now()
	days, err := database.ProfitsByDay(now.Year(), now.Month())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate profits"})
		return
	}

	rows := make([]receipt.ProfitRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, receipt.ProfitRow{Date: d.Date, Total: d.Total})
	}

	pdfBytes, err := receipt.BuildDailyProfitPDF("Reporte de Ganancias Mensuales", rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	filename := receipt.Timestamped("GananciasMensuales", "pdf", now)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// --- GET: Download the current month's daily profits as a spreadsheet ---
func ExportProfitsExcel(c *gin.Context) {
	now := time.Now()
	days, err := database.ProfitsByDay(now.Year(), now.Month())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate profits"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ganancias Mensuales"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", "Fecha")
	f.SetCellValue(sheet, "B1", "Total Ganancias")

	for i, d := range days {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetCellValue(sheet, cell, d.Date)
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		total, _ := d.Total.Float64()
		f.SetCellValue(sheet, cell, total)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render spreadsheet"})
		return
	}

	filename := receipt.Timestamped("GananciasMensuales", "xlsx", now)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// --- POST: Run the upsert-by-day profit snapshot. This is the routine
// the original ran ad hoc; it keeps one row per product per day, unlike
// the per-sale inserts done at the counter. ---
func RunProfitSnapshot(c *gin.Context) {
	if err := database.SnapshotDailyProfits(time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to snapshot profits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profit snapshot completed"})
}
