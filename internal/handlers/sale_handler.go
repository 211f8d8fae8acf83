package handlers

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/mailer"
	"vivero-api/internal/models"
	"vivero-api/internal/receipt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SaleRequest is the counter form: what was sold, to whom, and the care
// notes printed on the boleta.
type SaleRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	CareNotes     string `json:"care_notes"`
	CustomerEmail string `json:"customer_email"`
}

// ProcessSale runs the whole sale workflow. The storage effects (stock
// decrement, sale row, stock movement, profit-history row, zero-stock
// product removal) commit as one transaction; QR/PDF/email side effects
// happen after the commit and never roll it back.
func ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cantidad debe ser mayor que cero."})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cantidad no disponible o producto no encontrado."})
		return
	}
	// All checks happen before any mutation: an oversell leaves the
	// database untouched.
	if product.Quantity < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad no disponible o producto no encontrado."})
		return
	}

	now := time.Now()
	sale := models.Sale{
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		SoldAt:    now,
	}

	tx := database.DB.Begin()

	product.Quantity -= req.Quantity

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale record"})
		return
	}

	movement := models.StockMovement{
		ProductID: product.ID,
		Direction: "Salida",
		Quantity:  req.Quantity,
		MovedAt:   now,
	}
	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record stock movement"})
		return
	}

	// Every sale appends its own profit row. The daily snapshot routine
	// upserts one row per product per day instead; both behaviors are
	// kept on purpose.
	profit := models.ProfitHistory{
		ProductID:   product.ID,
		ProductName: product.Name,
		Total:       sale.Total,
		RecordedAt:  now,
	}
	if err := tx.Create(&profit).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record profit"})
		return
	}

	if product.Quantity == 0 {
		// Sold out: audit it, then drop the product. Dependent rows are
		// covered by the cascade rules declared on the schema.
		audit := models.ActivityLog{
			UserID:   c.GetString("rut"),
			Action:   "Eliminar Producto",
			Details:  fmt.Sprintf("Producto eliminado automáticamente: %s (ID: %d) tras agotar su stock.", product.Name, product.ID),
			LoggedAt: now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
			return
		}
		if err := tx.Delete(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove sold-out product"})
			return
		}
	} else {
		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit sale"})
		return
	}

	// --- Post-commit side effects ---

	response := gin.H{
		"message": "Sale successful!",
		"sale":    sale,
	}

	qrPNG, err := receipt.QRPNG(receipt.ScanURL(baseURL(), product.ID, req.CareNotes))
	if err != nil {
		log.Println("Receipt QR failed:", err)
	} else {
		response["receipt_qr"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)
	}

	pdfBytes, err := receipt.BuildPDF(&sale, &product, req.CareNotes, qrPNG)
	if err != nil {
		log.Println("Receipt PDF failed:", err)
	} else {
		response["receipt_pdf"] = base64.StdEncoding.EncodeToString(pdfBytes)
	}

	if req.CustomerEmail != "" && pdfBytes != nil {
		err := mailer.Send(req.CustomerEmail, "Boleta de Venta",
			"Adjunto encontrarás la boleta de tu compra.",
			mailer.Attachment{Name: "boleta.pdf", Data: pdfBytes})
		if err != nil {
			// The sale is already committed; email trouble is only a warning
			response["warning"] = "Hubo un problema al enviar el correo: " + err.Error()
		} else {
			response["email"] = "El correo fue enviado correctamente."
		}
	}

	notifyLowStock()

	c.JSON(http.StatusOK, response)
}

// notifyLowStock re-scans the whole inventory and mails the operator
// one alert per product at or below the threshold.
func notifyLowStock() {
	operator := os.Getenv("ALERT_EMAIL")
	if operator == "" {
		operator = "moralesbjoaquin@gmail.com"
	}

	var lowStock []models.Product
	err := database.DB.Preload("Supplier").
		Where("quantity <= ?", LowStockThreshold).
		Find(&lowStock).Error
	if err != nil {
		log.Println("Low-stock scan failed:", err)
		return
	}

	for _, p := range lowStock {
		supplierName := ""
		if p.Supplier != nil {
			supplierName = p.Supplier.Name
		}
		body := fmt.Sprintf(
			"El producto '%s' está próximo a agotarse con un stock de %d unidades. Por favor, contacta al proveedor '%s' para reabastecer.",
			p.Name, p.Quantity, supplierName)

		if err := mailer.Send(operator, "Alerta de Stock Bajo", body); err != nil {
			log.Println("Low-stock alert failed:", err)
		}
	}
}

// --- GET: All sales, newest first ---
func GetSales(c *gin.Context) {
	var sales []models.Sale
	if err := database.DB.Order("sold_at desc").Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: Sales of every product supplied by one supplier ---
func GetSupplierTransactions(c *gin.Context) {
	var sales []models.Sale
	err := database.DB.
		Joins("JOIN products ON products.id = sales.product_id").
		Where("products.supplier_id = ?", c.Param("id")).
		Order("sales.sold_at desc").
		Find(&sales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, sales)
}
