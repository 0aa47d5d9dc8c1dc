package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive calendar-date window; nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

type TopProduct struct {
	Name     string `json:"name"`
	TotalQty int64  `json:"total_qty"`
}

type Report struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Profit        decimal.Decimal `json:"profit"`
	TotalInvoices int64           `json:"total_invoices"`
	TopProducts   []TopProduct    `json:"top_products"`
}

// MonthlyTotal is one aggregated month as read from the database.
type MonthlyTotal struct {
	Month time.Time
	Total decimal.Decimal
}

type MonthlyPoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
