package models

import "time"

const (
	DefaultCompanyName = "کابل آسیا"
	DefaultCurrency    = "AFN"
	DefaultTheme       = "dark"
)

// CompanySetting is the singleton configuration row.
type CompanySetting struct {
	CompanyName string    `json:"company_name" db:"company_name"`
	Address     string    `json:"address" db:"address"`
	Phone       string    `json:"phone" db:"phone"`
	Currency    string    `json:"currency" db:"currency"`
	Theme       string    `json:"theme" db:"theme"`
	Logo        string    `json:"-" db:"logo"` // object key
	LogoURL     string    `json:"logo"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
