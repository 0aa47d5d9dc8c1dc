package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a billable offering referenced by invoice items.
type Service struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
