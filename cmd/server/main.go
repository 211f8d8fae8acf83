package main

import (
	"log"
	"os"
	"time"

	"vivero-api/internal/database"
	"vivero-api/internal/handlers"
	"vivero-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	handlers.EnsureAdmin()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.POST("/forgot-password", handlers.ForgotPassword)
	r.POST("/reset-password", handlers.ResetPassword)
	r.Static("/uploads", "./uploads")

	// Printed QR codes resolve here, so it stays public
	r.GET("/scan/:id", handlers.ScanProduct)

	// Client self-registration only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.RegisterClient)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF (Administrador y Trabajador)
		staff := api.Group("/")
		staff.Use(middleware.RequireRole("Administrador", "Trabajador"))
		{
			staff.GET("/products", handlers.GetProducts)
			staff.GET("/products/:id", handlers.GetProduct)
			staff.GET("/products/search", handlers.SearchProducts)
			staff.GET("/products/catalog", handlers.GetCatalog)
			staff.GET("/products/row-code", handlers.SearchByRowCode)
			staff.GET("/products/low-stock", handlers.GetLowStock)
			staff.GET("/stock", handlers.GetStockOverview)
			staff.GET("/stock/movements", handlers.GetStockMovements)

			staff.POST("/sales", handlers.ProcessSale)
			staff.GET("/sales", handlers.GetSales)

			staff.GET("/suppliers", handlers.GetSuppliers)
			staff.POST("/suppliers", handlers.AddSupplier)
			staff.PUT("/suppliers/:id", handlers.UpdateSupplier)
			staff.DELETE("/suppliers/:id", handlers.DeleteSupplier)
			staff.GET("/suppliers/:id/transactions", handlers.GetSupplierTransactions)

			staff.GET("/cashflows", handlers.GetCashFlows)
			staff.GET("/cashflows/:id", handlers.GetCashFlow)
			staff.POST("/cashflows", handlers.AddCashFlow)
			staff.PUT("/cashflows/:id", handlers.UpdateCashFlow)
			staff.DELETE("/cashflows/:id", handlers.DeleteCashFlow)

			staff.GET("/promotions", handlers.GetPromotions)
			staff.POST("/promotions", handlers.CreatePromotion)
			staff.POST("/promotions/apply", handlers.ApplyPromotion)
			staff.POST("/promotions/remove", handlers.RemovePromotion)

			staff.GET("/reports/frequency", handlers.GetFrequencyReport)
			staff.GET("/reports/profits", handlers.GetProfitHistory)
			staff.GET("/reports/profits/monthly", handlers.GetMonthlyProfits)
			staff.GET("/reports/top-products", handlers.GetTopSellers)
			staff.GET("/reports/sales-per-day", handlers.GetSalesPerDay)
			staff.GET("/reports/export/pdf", handlers.ExportProfitsPDF)
			staff.GET("/reports/export/excel", handlers.ExportProfitsExcel)

			staff.GET("/dashboard", handlers.GetDashboard)
			staff.GET("/dashboard/utilities/:id", handlers.CalculateUtilities)
			staff.POST("/dashboard/simulation", handlers.RunSimulation)
			staff.POST("/dashboard/quote", handlers.BuildQuote)
			staff.GET("/dashboard/rotation", handlers.GetRotationAnalysis)

			staff.GET("/activity", handlers.GetActivityLog)
		}

		// Online checkout is open to logged-in clients too
		api.POST("/payment/create-session", handlers.CreateCheckoutSession)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("Administrador"))
		{
			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)

			admin.GET("/users", handlers.GetUsers)
			admin.GET("/users/:rut", handlers.GetUser)
			admin.POST("/users", handlers.CreateUser)
			admin.PUT("/users/:rut", handlers.UpdateUser)
			admin.DELETE("/users/:rut", handlers.DeleteUser)

			admin.POST("/reports/profit-snapshot", handlers.RunProfitSnapshot)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
