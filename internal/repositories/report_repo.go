package repositories

import (
	"context"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// ReportRepository exposes the read-only aggregates behind finance reporting.
type ReportRepository interface {
	SalesTotals(ctx context.Context, rng models.DateRange) (decimal.Decimal, int64, error)
	ExpenseTotal(ctx context.Context, rng models.DateRange) (decimal.Decimal, error)
	TopProducts(ctx context.Context, rng models.DateRange, limit int) ([]models.TopProduct, error)
	MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error)
	MonthlyExpenses(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error)
}

type reportRepo struct {
	db Database
}

func NewReportRepo(db Database) ReportRepository {
	return &reportRepo{db: db}
}

// SalesTotals sums quantity * price over items whose invoice falls in range,
// and counts the distinct invoices contributing at least one item.
func (r *reportRepo) SalesTotals(ctx context.Context, rng models.DateRange) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(ii.quantity * ii.price), 0), COUNT(DISTINCT ii.invoice_id)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE ($1::date IS NULL OR i.created_at::date >= $1::date)
		  AND ($2::date IS NULL OR i.created_at::date <= $2::date)
	`
	var sales decimal.Decimal
	var invoices int64
	if err := r.db.QueryRow(ctx, query, rng.Start, rng.End).Scan(&sales, &invoices); err != nil {
		return decimal.Zero, 0, err
	}
	return sales, invoices, nil
}

func (r *reportRepo) ExpenseTotal(ctx context.Context, rng models.DateRange) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE ($1::date IS NULL OR date >= $1::date)
		  AND ($2::date IS NULL OR date <= $2::date)
	`
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, rng.Start, rng.End).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, rng models.DateRange, limit int) ([]models.TopProduct, error) {
	query := `
		SELECT s.name, SUM(ii.quantity) AS total_qty
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		JOIN services s ON s.id = ii.service_id
		WHERE ($1::date IS NULL OR i.created_at::date >= $1::date)
		  AND ($2::date IS NULL OR i.created_at::date <= $2::date)
		GROUP BY s.name
		ORDER BY total_qty DESC, s.name ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, rng.Start, rng.End, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.Name, &p.TotalQty); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// MonthlyIncome groups item sales by invoice month for from <= day < to.
func (r *reportRepo) MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error) {
	query := `
		SELECT date_trunc('month', i.created_at)::date AS month, SUM(ii.quantity * ii.price)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.created_at::date >= $1::date AND i.created_at::date < $2::date
		GROUP BY month
		ORDER BY month
	`
	return r.monthly(ctx, query, from, to)
}

func (r *reportRepo) MonthlyExpenses(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error) {
	query := `
		SELECT date_trunc('month', date)::date AS month, SUM(amount)
		FROM expenses
		WHERE date >= $1::date AND date < $2::date
		GROUP BY month
		ORDER BY month
	`
	return r.monthly(ctx, query, from, to)
}

func (r *reportRepo) monthly(ctx context.Context, query string, from, to time.Time) ([]models.MonthlyTotal, error) {
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []models.MonthlyTotal{}
	for rows.Next() {
		var t models.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
