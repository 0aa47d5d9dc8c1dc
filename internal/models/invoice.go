package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the aggregate root; its total is always derived from Items.
type Invoice struct {
	ID           int64         `json:"id" db:"id"`
	CustomerName string        `json:"customer_name" db:"customer_name"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	Items        []InvoiceItem `json:"items"`
}

// TotalAmount sums quantity * price over the current items.
func (inv *Invoice) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].TotalPrice())
	}
	return total
}

func (inv Invoice) MarshalJSON() ([]byte, error) {
	type alias Invoice
	items := inv.Items
	if items == nil {
		items = []InvoiceItem{}
	}
	return json.Marshal(struct {
		alias
		Items       []InvoiceItem   `json:"items"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	}{
		alias:       alias(inv),
		Items:       items,
		TotalAmount: inv.TotalAmount(),
	})
}

type InvoiceItem struct {
	ID          int64           `json:"id" db:"id"`
	InvoiceID   int64           `json:"invoice" db:"invoice_id"`
	ServiceID   int64           `json:"service" db:"service_id"`
	ServiceName string          `json:"service_name" db:"service_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Discount    decimal.Decimal `json:"discount" db:"discount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TotalPrice is quantity * price; the stored discount is informational only.
func (it *InvoiceItem) TotalPrice() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type alias InvoiceItem
	return json.Marshal(struct {
		alias
		TotalPrice decimal.Decimal `json:"total_price"`
	}{
		alias:      alias(it),
		TotalPrice: it.TotalPrice(),
	})
}

// InvoiceItemInput is one line of a create or replace request.
type InvoiceItemInput struct {
	ServiceID int64           `json:"service" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Discount  decimal.Decimal `json:"discount" validate:"gte=0"`
}

// InvoiceSummary feeds the dashboard cards.
type InvoiceSummary struct {
	TodayIncome  decimal.Decimal `json:"today_income"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}
