package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - staff and clients. The RUT is the natural key (Chilean ID).
type User struct {
	Rut          string `gorm:"primaryKey;size:12" json:"rut"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash []byte `json:"-"` // Never return these in JSON
	PasswordSalt []byte `json:"-"`
	Role         string `json:"role"` // 'Administrador', 'Trabajador', 'Cliente'
	Blocked      bool   `json:"blocked"`
}

// Product - the nursery inventory. A product is removed automatically
// once a sale drains its quantity to zero.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	PhotoURL    string          `json:"photo_url"`
	QRCode      string          `gorm:"type:text" json:"qr_code"` // data:image/png;base64 payload
	RowCode     int             `json:"row_code"`                 // 6-digit "código hilera"
	SupplierID  *uint           `json:"supplier_id"`
	Supplier    *Supplier       `json:"supplier,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
	Sales       []Sale          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// Supplier - who the nursery buys from
type Supplier struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2)" json:"purchase_price"`
}

// Sale - one sold line. UnitPrice is a snapshot of the product price
// at the time of sale.
type Sale struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProductID  uint            `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2)" json:"total"`
	SoldAt     time.Time       `json:"sold_at"`
	CashFlowID *uint           `json:"cash_flow_id"`
}

// ProfitHistory - denormalized profit snapshots. The product name is
// copied in so rows survive product deletion.
type ProfitHistory struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2)" json:"total"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// StockMovement - append-only log of every quantity change
type StockMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `json:"product_id"`
	Direction string    `json:"direction"` // 'Entrada' or 'Salida'
	Quantity  int       `json:"quantity"`
	MovedAt   time.Time `json:"moved_at"`
}

// ActivityLog - audit trail (who did what, when)
type ActivityLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   string    `json:"user_id"` // actor RUT
	Action   string    `json:"action"`
	Details  string    `json:"details"`
	LoggedAt time.Time `json:"logged_at"`
}

// CashFlow - manually entered daily ledger ("flujo de caja")
type CashFlow struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2)" json:"opening_balance"`

	// Inflows
	CashSales   decimal.Decimal `gorm:"type:decimal(18,2)" json:"cash_sales"`
	CreditSales decimal.Decimal `gorm:"type:decimal(18,2)" json:"credit_sales"`
	Collections decimal.Decimal `gorm:"type:decimal(18,2)" json:"collections"`

	// Outflows
	MerchandisePurchases decimal.Decimal `gorm:"type:decimal(18,2)" json:"merchandise_purchases"`
	Payroll              decimal.Decimal `gorm:"type:decimal(18,2)" json:"payroll"`
	SupplierPayments     decimal.Decimal `gorm:"type:decimal(18,2)" json:"supplier_payments"`
	Taxes                decimal.Decimal `gorm:"type:decimal(18,2)" json:"taxes"`

	// Financing
	LoansReceived decimal.Decimal `gorm:"type:decimal(18,2)" json:"loans_received"`

	Sales []Sale `gorm:"foreignKey:CashFlowID" json:"-"`
}

// TotalInflows sums cash sales, credit sales and collections.
func (cf *CashFlow) TotalInflows() decimal.Decimal {
	return cf.CashSales.Add(cf.CreditSales).Add(cf.Collections)
}

// TotalOutflows sums purchases, payroll, supplier payments and taxes.
func (cf *CashFlow) TotalOutflows() decimal.Decimal {
	return cf.MerchandisePurchases.Add(cf.Payroll).Add(cf.SupplierPayments).Add(cf.Taxes)
}

// ClosingBalance is opening + inflows - outflows + financing.
func (cf *CashFlow) ClosingBalance() decimal.Decimal {
	return cf.OpeningBalance.Add(cf.TotalInflows()).Sub(cf.TotalOutflows()).Add(cf.LoansReceived)
}

// Promotion - scheduled percentage discount on a product
type Promotion struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"` // percent, 0-100
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
}

// PasswordResetRequest - single-use reset token, valid for 24 hours
type PasswordResetRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"size:100;not null" json:"email"`
	Token       string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	RequestedAt time.Time `json:"requested_at"`
	Used        bool      `json:"used"`
}
