package handlers

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"
	"vivero-api/internal/receipt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity at or below which a product shows
// up in the restock alerts.
const LowStockThreshold = 10

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Supplier").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: One product with its supplier ---
func GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Preload("Supplier").First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var sold int
	database.DB.Model(&models.Sale{}).
		Where("product_id = ?", product.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sold)

	c.JSON(http.StatusOK, gin.H{
		"product":       product,
		"units_sold":    sold,
		"units_on_hand": product.Quantity,
	})
}

// --- POST: Add a new product (multipart: fields + optional photo) ---
func AddProduct(c *gin.Context) {
	name := c.PostForm("name")
	category := c.PostForm("category")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del producto es obligatorio."})
		return
	}
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La categoría del producto es obligatoria."})
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}
	if price.IsNegative() || quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El precio y la cantidad no pueden ser negativos."})
		return
	}

	product := models.Product{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Quantity:    quantity,
		Category:    category,
		Status:      c.PostForm("status"),
		RowCode:     100000 + rand.Intn(900000), // 6-digit "código hilera"
		ReceivedAt:  time.Now(),
	}

	if supplierID, err := strconv.Atoi(c.PostForm("supplier_id")); err == nil && supplierID > 0 {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, supplierID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier not found"})
			return
		}
		product.SupplierID = &supplier.ID
	}

	if file, err := c.FormFile("photo"); err == nil {
		filename := uuid.NewString() + "_" + file.Filename
		if err := c.SaveUploadedFile(file, "./uploads/"+filename); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
			return
		}
		product.PhotoURL = "/uploads/" + filename
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	database.LogActivity(c.GetString("rut"), "Crear Producto", fmt.Sprintf("Producto creado: %s", product.Name))

	// The QR needs the assigned ID, so it is stamped after the insert
	qr, err := receipt.QRDataURL(receipt.ScanURL(baseURL(), product.ID, ""))
	if err != nil {
		log.Println("QR generation failed:", err)
	} else {
		product.QRCode = qr
		if err := database.DB.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store QR code"})
			return
		}
	}

	c.JSON(http.StatusCreated, product)
}

// --- PUT: Partial update (send only the fields to change) ---
func UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Only the catalog fields are editable; id, row code, QR and photo
	// are managed by the server.
	editable := []string{"name", "description", "price", "quantity", "category", "status", "supplier_id"}
	updateData := make(map[string]interface{})
	for _, field := range editable {
		if raw, ok := input[field]; ok {
			updateData[field] = raw
		}
	}
	if len(updateData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Quantity and price never go negative through an edit either
	if raw, ok := updateData["price"]; ok {
		price, err := decimal.NewFromString(fmt.Sprint(raw))
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El precio y la cantidad no pueden ser negativos."})
			return
		}
		updateData["price"] = price
	}
	if raw, ok := updateData["quantity"]; ok {
		quantity, err := strconv.Atoi(fmt.Sprint(raw))
		if err != nil || quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El precio y la cantidad no pueden ser negativos."})
			return
		}
	}

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Manual removal. The remaining stock is valued into the
// profit history before the row goes away. ---
func DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	snapshot := models.ProfitHistory{
		ProductID:   product.ID,
		ProductName: product.Name,
		Total:       product.Price.Mul(decimal.NewFromInt(int64(product.Quantity))),
		RecordedAt:  time.Now(),
	}
	if err := database.DB.Create(&snapshot).Error; err != nil {
		log.Println("Profit snapshot on delete failed:", err)
	}

	if err := database.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past sales."})
		return
	}

	database.LogActivity(c.GetString("rut"), "Eliminar Producto",
		fmt.Sprintf("Producto eliminado: %s (ID: %d)", product.Name, product.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- GET: Free-text search over name and description ---
func SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Debe ingresar un término de búsqueda."})
		return
	}

	var products []models.Product
	like := "%" + term + "%"
	err := database.DB.Preload("Supplier").
		Where("name LIKE ? OR description LIKE ?", like, like).
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Catalog, optionally filtered by category ---
func GetCatalog(c *gin.Context) {
	query := database.DB.Preload("Supplier")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch catalog"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Look a product up by its 6-digit row code ---
func SearchByRowCode(c *gin.Context) {
	code, err := strconv.Atoi(c.Query("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid row code"})
		return
	}

	var product models.Product
	if err := database.DB.Preload("Supplier").Where("row_code = ?", code).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- GET: Everything at or below the restock threshold ---
func GetLowStock(c *gin.Context) {
	var products []models.Product
	err := database.DB.Preload("Supplier").
		Where("quantity <= ?", LowStockThreshold).
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": LowStockThreshold, "products": products})
}

// StockRow is the flattened stock overview the warehouse screen shows.
type StockRow struct {
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	Category     string `json:"category"`
	SupplierName string `json:"supplier_name"`
}

// --- GET: Stock overview joined with supplier names ---
func GetStockOverview(c *gin.Context) {
	var rows []StockRow
	err := database.DB.Table("products").
		Select("products.name AS product_name, products.quantity AS quantity, products.category AS category, COALESCE(suppliers.name, '') AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.supplier_id").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: Append-only stock movement history ---
func GetStockMovements(c *gin.Context) {
	var movements []models.StockMovement
	if err := database.DB.Order("moved_at desc").Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

// --- GET: Public endpoint behind the printed QR codes ---
func ScanProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Preload("Supplier").First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  product,
		"cuidados": c.Query("cuidados"),
	})
}
