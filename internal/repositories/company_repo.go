package repositories

import (
	"context"
	"fmt"

	"backoffice/internal/models"
)

type CompanyRepository interface {
	Get(ctx context.Context) (*models.CompanySetting, error)
	Save(ctx context.Context, setting *models.CompanySetting) error
}

type companyRepo struct {
	db Database
}

func NewCompanyRepo(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

// Get returns the singleton row, creating it with defaults on first access.
func (r *companyRepo) Get(ctx context.Context) (*models.CompanySetting, error) {
	if _, err := r.db.Exec(ctx, `INSERT INTO company_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return nil, fmt.Errorf("ensure company settings: %w", err)
	}

	setting := &models.CompanySetting{}
	query := `
		SELECT company_name, address, phone, currency, theme, logo, updated_at
		FROM company_settings
		WHERE id = 1
	`
	err := r.db.QueryRow(ctx, query).Scan(&setting.CompanyName, &setting.Address, &setting.Phone,
		&setting.Currency, &setting.Theme, &setting.Logo, &setting.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// Save upserts every column of the singleton row.
func (r *companyRepo) Save(ctx context.Context, setting *models.CompanySetting) error {
	query := `
		INSERT INTO company_settings (id, company_name, address, phone, currency, theme, logo, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			currency = EXCLUDED.currency,
			theme = EXCLUDED.theme,
			logo = EXCLUDED.logo,
			updated_at = NOW()
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query, setting.CompanyName, setting.Address, setting.Phone,
		setting.Currency, setting.Theme, setting.Logo).Scan(&setting.UpdatedAt)
}
