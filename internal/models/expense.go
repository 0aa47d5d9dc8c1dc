package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Category  string          `json:"category" db:"category"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ExpenseFilter narrows expense listings to an inclusive date range.
type ExpenseFilter struct {
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}

// MarshalJSON renders Date as a calendar date.
func (e Expense) MarshalJSON() ([]byte, error) {
	type alias Expense
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(e),
		Date:  e.Date.Format("2006-01-02"),
	})
}
