package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"vivero-api/internal/database"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SupplierRequest struct {
	Name          string          `json:"name" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// --- GET: List all suppliers ---
func GetSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := database.DB.Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// --- POST: Add a supplier ---
func AddSupplier(c *gin.Context) {
	var input SupplierRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.PurchasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El precio de compra no puede ser negativo."})
		return
	}

	supplier := models.Supplier{Name: input.Name, PurchasePrice: input.PurchasePrice}
	if err := database.DB.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}

	database.LogActivity(c.GetString("rut"), "Crear Proveedor", fmt.Sprintf("Proveedor creado: %s", supplier.Name))

	c.JSON(http.StatusCreated, supplier)
}

// --- PUT: Update a supplier ---
func UpdateSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Supplier ID"})
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	var input SupplierRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.PurchasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El precio de compra no puede ser negativo."})
		return
	}

	supplier.Name = input.Name
	supplier.PurchasePrice = input.PurchasePrice
	if err := database.DB.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// --- DELETE: Remove a supplier. Its products are detached first so
// they keep existing with a null supplier. ---
func DeleteSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Supplier ID"})
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Model(&models.Product{}).
		Where("supplier_id = ?", supplier.ID).
		Update("supplier_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach products"})
		return
	}
	if err := tx.Delete(&supplier).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
