package handlers

import (
	"fmt"
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

func cashFlowRouter() *gin.Engine {
	r := newRouter("11111111-1")
	r.GET("/api/cashflows", GetCashFlows)
	r.GET("/api/cashflows/:id", GetCashFlow)
	r.POST("/api/cashflows", AddCashFlow)
	r.PUT("/api/cashflows/:id", UpdateCashFlow)
	r.DELETE("/api/cashflows/:id", DeleteCashFlow)
	return r
}

func TestAddCashFlowComputesTotals(t *testing.T) {
	setupTestDB(t)
	r := cashFlowRouter()

	w := doJSON(t, r, http.MethodPost, "/api/cashflows", CashFlowRequest{
		Date:                 time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		OpeningBalance:       decimal.NewFromInt(1000),
		CashSales:            decimal.NewFromInt(500),
		CreditSales:          decimal.NewFromInt(200),
		Collections:          decimal.NewFromInt(100),
		LoansReceived:        decimal.NewFromInt(50),
		MerchandisePurchases: decimal.NewFromInt(300),
		Payroll:              decimal.NewFromInt(120),
		SupplierPayments:     decimal.NewFromInt(80),
		Taxes:                decimal.NewFromInt(40),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "800", fmt.Sprint(body["total_inflows"]))
	assert.Equal(t, "540", fmt.Sprint(body["total_outflows"]))
	// 1000 + 800 - 540 + 50 in loans
	assert.Equal(t, "1310", fmt.Sprint(body["closing_balance"]))

	var count int64
	database.DB.Model(&models.CashFlow{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddCashFlowRejectsNegatives(t *testing.T) {
	setupTestDB(t)
	r := cashFlowRouter()

	w := doJSON(t, r, http.MethodPost, "/api/cashflows", CashFlowRequest{
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		CashSales: decimal.NewFromInt(-10),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.CashFlow{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateCashFlow(t *testing.T) {
	setupTestDB(t)
	entry := models.CashFlow{
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		CashSales: decimal.NewFromInt(500),
	}
	require.NoError(t, database.DB.Create(&entry).Error)

	r := cashFlowRouter()
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cashflows/%d", entry.ID), CashFlowRequest{
		Date:      entry.Date,
		CashSales: decimal.NewFromInt(700),
		Payroll:   decimal.NewFromInt(100),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.CashFlow
	require.NoError(t, database.DB.First(&reloaded, entry.ID).Error)
	assert.True(t, reloaded.CashSales.Equal(decimal.NewFromInt(700)))
	assert.True(t, reloaded.Payroll.Equal(decimal.NewFromInt(100)))
}

func TestDeleteCashFlow(t *testing.T) {
	setupTestDB(t)
	entry := models.CashFlow{Date: time.Now()}
	require.NoError(t, database.DB.Create(&entry).Error)

	r := cashFlowRouter()
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cashflows/%d", entry.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.CashFlow{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetCashFlowNotFound(t *testing.T) {
	setupTestDB(t)
	r := cashFlowRouter()
	w := doJSON(t, r, http.MethodGet, "/api/cashflows/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
