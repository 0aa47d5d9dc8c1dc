package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Role      string          `json:"role" db:"role"`
	Salary    decimal.Decimal `json:"salary" db:"salary"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
