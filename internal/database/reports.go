package database

import (
	"errors"
	"time"

	"vivero-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySales is one row of a frequency report: everything sold on a
// given calendar day.
type DailySales struct {
	Date          string          `json:"date"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalQuantity int             `json:"total_quantity"`
}

// DailyProfit mirrors the original "ganancia mensual" rows: profit
// history aggregated per calendar day.
type DailyProfit struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// TopProduct is one row of the best-sellers ranking.
type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

// SalesByDay groups sales between start and end by calendar day.
func SalesByDay(start, end time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := DB.Model(&models.Sale{}).
		Select("DATE(sold_at) AS date, COALESCE(SUM(total), 0) AS total_sales, COALESCE(SUM(quantity), 0) AS total_quantity").
		Where("sold_at BETWEEN ? AND ?", start, end).
		Group("DATE(sold_at)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

// SalesTotal computes the grand total over a window directly, without
// the daily grouping. Reports reconcile against this.
func SalesTotal(start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := DB.Model(&models.Sale{}).
		Where("sold_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

// ProfitsByDay aggregates profit-history rows per calendar day for the
// given month.
func ProfitsByDay(year int, month time.Month) ([]DailyProfit, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var rows []DailyProfit
	err := DB.Model(&models.ProfitHistory{}).
		Select("DATE(recorded_at) AS date, COALESCE(SUM(total), 0) AS total").
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Group("DATE(recorded_at)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

// MonthProfitTotal sums profit history for one month.
func MonthProfitTotal(year int, month time.Month) (decimal.Decimal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var total decimal.Decimal
	err := DB.Model(&models.ProfitHistory{}).
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

// TopSellers ranks products by units sold.
func TopSellers(limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := DB.Table("sales").
		Select("sales.product_id AS product_id, products.name AS name, SUM(sales.quantity) AS total_sold").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("sales.product_id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SnapshotDailyProfits upserts one cumulative profit row per product
// per day. Note this intentionally differs from the per-sale insert
// done inside the sale transaction: that path appends a row per sale,
// this one keeps a single row per product per day.
func SnapshotDailyProfits(now time.Time) error {
	var products []models.Product
	if err := DB.Find(&products).Error; err != nil {
		return err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, p := range products {
		var total decimal.Decimal
		err := DB.Model(&models.Sale{}).
			Where("product_id = ?", p.ID).
			Select("COALESCE(SUM(total), 0)").
			Scan(&total).Error
		if err != nil {
			return err
		}

		var existing models.ProfitHistory
		err = DB.Where("product_id = ? AND recorded_at >= ? AND recorded_at < ?", p.ID, dayStart, dayEnd).
			First(&existing).Error
		if err == nil {
			existing.Total = total
			if err := DB.Save(&existing).Error; err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row := models.ProfitHistory{
			ProductID:   p.ID,
			ProductName: p.Name,
			Total:       total,
			RecordedAt:  now,
		}
		if err := DB.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
