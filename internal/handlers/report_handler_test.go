package handlers

import (
	"net/http"
	"testing"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRouter() *gin.Engine {
	r := newRouter("11111111-1")
	r.GET("/api/reports/frequency", GetFrequencyReport)
	r.GET("/api/reports/monthly-profits", GetMonthlyProfits)
	r.GET("/api/reports/top-sellers", GetTopSellers)
	r.GET("/api/reports/profits/pdf", ExportProfitsPDF)
	r.GET("/api/reports/profits/excel", ExportProfitsExcel)
	r.POST("/api/reports/profit-snapshot", RunProfitSnapshot)
	return r
}

func recordSale(t *testing.T, product models.Product, quantity int, soldAt time.Time) {
	t.Helper()
	sale := models.Sale{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		SoldAt:    soldAt,
	}
	require.NoError(t, database.DB.Create(&sale).Error)
}

func TestGetFrequencyReport(t *testing.T) {
	setupTestDB(t)
	product := seedProduct(t, "Azalea", 5000, 20)
	recordSale(t, product, 2, time.Now().Add(-2*time.Hour))
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/frequency?frequency=diario", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "diario", body["frequency"])

	w = doJSON(t, r, http.MethodGet, "/api/reports/frequency?frequency=semanal", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetFrequencyReportInvalidFrequency(t *testing.T) {
	setupTestDB(t)
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/frequency?frequency=anual", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "Frecuencia inválida")
}

func TestGetFrequencyReportEmptyWindow(t *testing.T) {
	setupTestDB(t)
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/frequency?frequency=diario", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMonthlyProfitsGoalProgress(t *testing.T) {
	setupTestDB(t)
	row := models.ProfitHistory{
		ProductID:   1,
		ProductName: "Azalea",
		Total:       decimal.NewFromInt(1500),
		RecordedAt:  time.Now(),
	}
	require.NoError(t, database.DB.Create(&row).Error)
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/monthly-profits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	// 1500 against a goal of 3000
	assert.Equal(t, "1500", body["month_total"])
	assert.Equal(t, "50", body["goal_progress"])
}

func TestExportProfitsPDF(t *testing.T) {
	setupTestDB(t)
	row := models.ProfitHistory{
		ProductID: 1, ProductName: "Azalea",
		Total: decimal.NewFromInt(9000), RecordedAt: time.Now(),
	}
	require.NoError(t, database.DB.Create(&row).Error)
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/profits/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "GananciasMensuales")
	assert.True(t, len(w.Body.Bytes()) > 0)
}

func TestExportProfitsExcel(t *testing.T) {
	setupTestDB(t)
	r := reportRouter()

	w := doJSON(t, r, http.MethodGet, "/api/reports/profits/excel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX containers are zip archives
	assert.Equal(t, []byte{'P', 'K'}, w.Body.Bytes()[:2])
}

func TestRunProfitSnapshot(t *testing.T) {
	setupTestDB(t)
	product := seedProduct(t, "Azalea", 5000, 20)
	recordSale(t, product, 3, time.Now())
	r := reportRouter()

	w := doJSON(t, r, http.MethodPost, "/api/reports/profit-snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.ProfitHistory{}).Where("product_id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
