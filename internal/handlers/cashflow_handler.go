package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CashFlowRequest is one day of the manually-kept ledger.
type CashFlowRequest struct {
	Date                 time.Time       `json:"date" binding:"required"`
	OpeningBalance       decimal.Decimal `json:"opening_balance"`
	CashSales            decimal.Decimal `json:"cash_sales"`
	CreditSales          decimal.Decimal `json:"credit_sales"`
	Collections          decimal.Decimal `json:"collections"`
	MerchandisePurchases decimal.Decimal `json:"merchandise_purchases"`
	Payroll              decimal.Decimal `json:"payroll"`
	SupplierPayments     decimal.Decimal `json:"supplier_payments"`
	Taxes                decimal.Decimal `json:"taxes"`
	LoansReceived        decimal.Decimal `json:"loans_received"`
}

func (r *CashFlowRequest) anyNegative() bool {
	for _, v := range []decimal.Decimal{
		r.OpeningBalance, r.CashSales, r.CreditSales, r.Collections,
		r.MerchandisePurchases, r.Payroll, r.SupplierPayments, r.Taxes,
		r.LoansReceived,
	} {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

// cashFlowView decorates a stored entry with its computed totals.
func cashFlowView(cf *models.CashFlow) gin.H {
	return gin.H{
		"entry":           cf,
		"total_inflows":   cf.TotalInflows(),
		"total_outflows":  cf.TotalOutflows(),
		"closing_balance": cf.ClosingBalance(),
	}
}

// --- GET: List the whole ledger ---
func GetCashFlows(c *gin.Context) {
	var entries []models.CashFlow
	if err := database.DB.Order("date desc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cash flows"})
		return
	}

	views := make([]gin.H, 0, len(entries))
	for i := range entries {
		views = append(views, cashFlowView(&entries[i]))
	}
	c.JSON(http.StatusOK, views)
}

// --- GET: One ledger entry ---
func GetCashFlow(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.CashFlow
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cash flow entry not found"})
		return
	}
	c.JSON(http.StatusOK, cashFlowView(&entry))
}

// --- POST: Add a ledger entry ---
func AddCashFlow(c *gin.Context) {
	var input CashFlowRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.anyNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se permiten valores negativos."})
		return
	}

	entry := models.CashFlow{
		Date:                 input.Date,
		OpeningBalance:       input.OpeningBalance,
		CashSales:            input.CashSales,
		CreditSales:          input.CreditSales,
		Collections:          input.Collections,
		MerchandisePurchases: input.MerchandisePurchases,
		Payroll:              input.Payroll,
		SupplierPayments:     input.SupplierPayments,
		Taxes:                input.Taxes,
		LoansReceived:        input.LoansReceived,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cash flow entry"})
		return
	}
	c.JSON(http.StatusCreated, cashFlowView(&entry))
}

// --- PUT: Replace a ledger entry ---
func UpdateCashFlow(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.CashFlow
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cash flow entry not found"})
		return
	}

	var input CashFlowRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.anyNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se permiten valores negativos."})
		return
	}

	entry.Date = input.Date
	entry.OpeningBalance = input.OpeningBalance
	entry.CashSales = input.CashSales
	entry.CreditSales = input.CreditSales
	entry.Collections = input.Collections
	entry.MerchandisePurchases = input.MerchandisePurchases
	entry.Payroll = input.Payroll
	entry.SupplierPayments = input.SupplierPayments
	entry.Taxes = input.Taxes
	entry.LoansReceived = input.LoansReceived

	if err := database.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cash flow entry"})
		return
	}
	c.JSON(http.StatusOK, cashFlowView(&entry))
}

// --- DELETE: Remove a ledger entry ---
func DeleteCashFlow(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	if err := database.DB.Delete(&models.CashFlow{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cash flow entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cash flow entry deleted successfully"})
}
