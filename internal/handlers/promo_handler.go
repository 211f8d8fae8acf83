package handlers

import (
	"fmt"
	"net/http"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type ApplyPromotionRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Discount  decimal.Decimal `json:"discount"` // percent
}

// ApplyPromotion discounts the product price in place. The caller keeps
// the original price if it wants to undo later.
func ApplyPromotion(c *gin.Context) {
	var input ApplyPromotionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Discount.IsNegative() || input.Discount.GreaterThan(oneHundred) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El porcentaje de descuento debe estar entre 0 y 100."})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	factor := decimal.NewFromInt(1).Sub(input.Discount.Div(oneHundred))
	product.Price = product.Price.Mul(factor).Round(2)

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("La promoción del %s%% se aplicó correctamente al producto '%s'.", input.Discount, product.Name),
		"product": product,
	})
}

type RemovePromotionRequest struct {
	ProductID     uint            `json:"product_id" binding:"required"`
	OriginalPrice decimal.Decimal `json:"original_price"`
}

// RemovePromotion restores the supplied original price.
func RemovePromotion(c *gin.Context) {
	var input RemovePromotionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.OriginalPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El precio y la cantidad no pueden ser negativos."})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	product.Price = input.OriginalPrice
	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Se eliminó la promoción y el producto '%s' se restauró a su precio original.", product.Name),
		"product": product,
	})
}

type CreatePromotionRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
	StartsAt  time.Time       `json:"starts_at" binding:"required"`
	EndsAt    time.Time       `json:"ends_at" binding:"required"`
}

// CreatePromotion records a scheduled promotion window.
func CreatePromotion(c *gin.Context) {
	var input CreatePromotionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !input.Discount.IsPositive() || input.Discount.GreaterThan(oneHundred) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El descuento debe estar entre 1% y 100%."})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, input.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	promo := models.Promotion{
		ProductID: input.ProductID,
		Discount:  input.Discount,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
	}
	if err := database.DB.Create(&promo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Promoción creada correctamente.", "promotion": promo})
}

// --- GET: List promotions with their products ---
func GetPromotions(c *gin.Context) {
	var promotions []models.Promotion
	if err := database.DB.Preload("Product").Find(&promotions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
		return
	}
	c.JSON(http.StatusOK, promotions)
}
