package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/models"
	"vivero-api/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Weather is the shared client; main wires it up, tests may swap it.
var Weather = weather.NewFromEnv()

// Tax and cost constants for the utilities calculator
var (
	ivaRate        = decimal.NewFromFloat(0.19) // 19% IVA
	profitTaxRate  = decimal.NewFromFloat(0.25) // 25% income tax
	fixedUnitCosts = decimal.NewFromInt(100)    // fixed costs per unit
)

// --- GET: /api/dashboard ---
// Business totals plus the weather block and care recommendations.
func GetDashboard(c *gin.Context) {
	var totalProfit decimal.Decimal
	database.DB.Model(&models.ProfitHistory{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalProfit)

	now := time.Now()
	monthProfit, err := database.MonthProfitTotal(now.Year(), now.Month())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate profits"})
		return
	}

	var productCount, supplierCount int64
	database.DB.Model(&models.Product{}).Count(&productCount)
	database.DB.Model(&models.Supplier{}).Count(&supplierCount)

	data, err := Weather.Current()
	if err != nil {
		log.Println("Weather lookup failed:", err)
		data = weather.Placeholder()
	}

	season := currentSeason(now)
	c.JSON(http.StatusOK, gin.H{
		"total_profit":    totalProfit,
		"month_profit":    monthProfit,
		"products":        productCount,
		"suppliers":       supplierCount,
		"weather":         data,
		"weather_advice":  weatherAdvice(data, err == nil),
		"season":          season,
		"recommendations": recommendedProducts(data, season),
	})
}

// weatherAdvice maps the day's conditions to a care message for the
// nursery floor.
func weatherAdvice(data *weather.Data, live bool) string {
	if !live {
		return "No se pudo obtener el clima actual. Verifica tu conexión."
	}

	description := ""
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}

	switch {
	case data.Main.Temp < 5:
		return "Precaución: Las temperaturas son muy bajas. Protege las plantas sensibles al frío."
	case data.Main.Temp > 30:
		return "Precaución: Las temperaturas son muy altas. Asegúrate de regar las plantas temprano para evitar la evaporación rápida."
	case data.Main.Humidity < 30:
		return "Precaución: La humedad es muy baja. Riega las plantas con más frecuencia."
	case data.Main.Humidity > 80:
		return "Precaución: La humedad es alta. Vigila las plantas por posibles hongos."
	case strings.Contains(description, "lluvia"):
		return "Precaución: Está lloviendo. Asegúrate de evitar acumulaciones de agua que puedan dañar las raíces."
	default:
		return "El clima actual no requiere precauciones específicas."
	}
}

// currentSeason maps the month to the southern-hemisphere season.
func currentSeason(t time.Time) string {
	switch t.Month() {
	case time.September, time.October, time.November:
		return "Primavera"
	case time.December, time.January, time.February:
		return "Verano"
	case time.March, time.April, time.May:
		return "Otoño"
	default:
		return "Invierno"
	}
}

// recommendedProducts picks stock that suits the season and today's
// temperature.
func recommendedProducts(data *weather.Data, season string) []models.Product {
	temp := 0.0
	if data != nil {
		temp = data.Main.Temp
	}

	match := false
	switch season {
	case "Primavera":
		match = true // spring suits most of the catalog
	case "Verano":
		match = temp > 25
	case "Otoño":
		match = temp > 5 && temp <= 20
	case "Invierno":
		match = temp <= 5
	}
	if !match {
		return []models.Product{}
	}

	var products []models.Product
	if err := database.DB.Preload("Supplier").Find(&products).Error; err != nil {
		log.Println("Recommendations query failed:", err)
		return []models.Product{}
	}
	return products
}

// --- GET: /api/dashboard/utilities/:id ---
// Breaks a product's sticker price down into IVA, gross and net profit.
func CalculateUtilities(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Preload("Supplier").First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado."})
		return
	}

	priceWithIVA := product.Price
	ivaAmount := priceWithIVA.Mul(ivaRate).Round(2)
	priceWithoutIVA := priceWithIVA.Sub(ivaAmount)
	grossProfit := priceWithoutIVA.Sub(fixedUnitCosts)
	profitTax := grossProfit.Mul(profitTaxRate).Round(2)
	netProfit := grossProfit.Sub(profitTax)

	c.JSON(http.StatusOK, gin.H{
		"product":           product,
		"price_with_iva":    priceWithIVA,
		"iva_amount":        ivaAmount,
		"price_without_iva": priceWithoutIVA,
		"fixed_costs":       fixedUnitCosts,
		"gross_profit":      grossProfit,
		"profit_tax":        profitTax,
		"net_profit":        netProfit,
	})
}

type SimulationRequest struct {
	PriceIncrease int `json:"price_increase"` // percent
	CostReduction int `json:"cost_reduction"` // percent
}

// --- POST: /api/dashboard/simulation ---
// What-if: raise prices by X%, cut inventory costs by Y%.
func RunSimulation(c *gin.Context) {
	var input SimulationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var totalSales decimal.Decimal
	database.DB.Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalSales)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthSales, err := database.SalesTotal(monthStart, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate sales"})
		return
	}

	var inventoryCost decimal.Decimal
	database.DB.Model(&models.Product{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&inventoryCost)

	increase := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(input.PriceIncrease)).Div(oneHundred))
	reduction := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(input.CostReduction)).Div(oneHundred))

	newTotalSales := totalSales.Mul(increase).Round(2)
	newMonthSales := monthSales.Mul(increase).Round(2)
	newInventoryCost := inventoryCost.Mul(reduction).Round(2)

	c.JSON(http.StatusOK, gin.H{
		"price_increase":      input.PriceIncrease,
		"cost_reduction":      input.CostReduction,
		"new_total_sales":     newTotalSales,
		"new_month_sales":     newMonthSales,
		"new_inventory_cost":  newInventoryCost,
		"profit_impact":       newMonthSales.Sub(monthSales),
		"cost_impact":         inventoryCost.Sub(newInventoryCost),
		"current_total_sales": totalSales,
		"current_month_sales": monthSales,
	})
}

type QuoteLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type QuoteRequest struct {
	Lines []QuoteLine `json:"lines" binding:"required"`
}

// --- POST: /api/dashboard/quote ---
// Builds a "cotización": line totals, net, IVA and grand total.
func BuildQuote(c *gin.Context) {
	var input QuoteRequest
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selecciona los productos e ingresa las cantidades correctamente."})
		return
	}

	type quoteDetail struct {
		Name      string          `json:"name"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		Total     decimal.Decimal `json:"total"`
	}

	details := make([]quoteDetail, 0, len(input.Lines))
	net := decimal.Zero
	for _, line := range input.Lines {
		var product models.Product
		if err := database.DB.First(&product, line.ProductID).Error; err != nil {
			continue
		}
		total := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		details = append(details, quoteDetail{
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Total:     total,
		})
		net = net.Add(total)
	}

	iva := net.Mul(ivaRate).Round(2)
	c.JSON(http.StatusOK, gin.H{
		"lines":          details,
		"net_total":      net,
		"iva":            iva,
		"total_with_iva": net.Add(iva),
	})
}

// --- GET: /api/dashboard/rotation ---
// Buckets the inventory into high/medium/low rotation by stock level.
func GetRotationAnalysis(c *gin.Context) {
	type bucketRow struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}

	bucket := func(where string, args ...interface{}) []bucketRow {
		var rows []bucketRow
		if err := database.DB.Model(&models.Product{}).
			Select("name, quantity").
			Where(where, args...).
			Scan(&rows).Error; err != nil {
			log.Println("Rotation query failed:", err)
		}
		return rows
	}

	c.JSON(http.StatusOK, gin.H{
		"high":   bucket("quantity > ?", 50),
		"medium": bucket("quantity > ? AND quantity <= ?", 20, 50),
		"low":    bucket("quantity <= ?", 20),
	})
}
