package repositories

import (
	"context"
	"errors"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error)
}

type expenseRepo struct {
	db Database
}

func NewExpenseRepo(db Database) ExpenseRepository {
	return &expenseRepo{db: db}
}

// Create stores the expense; a zero Date falls back to the database's current date.
func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	var date *string
	if !expense.Date.IsZero() {
		d := expense.Date.Format(common.DateLayout)
		date = &d
	}
	query := `
		INSERT INTO expenses (title, category, amount, date, created_at)
		VALUES ($1, $2, $3, COALESCE($4::date, CURRENT_DATE), NOW())
		RETURNING id, date, created_at
	`
	return r.db.QueryRow(ctx, query, expense.Title, expense.Category, expense.Amount, date).
		Scan(&expense.ID, &expense.Date, &expense.CreatedAt)
}

func (r *expenseRepo) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	expense := &models.Expense{}
	err := r.db.QueryRow(ctx, `SELECT id, title, category, amount, date, created_at FROM expenses WHERE id = $1`, id).
		Scan(&expense.ID, &expense.Title, &expense.Category, &expense.Amount, &expense.Date, &expense.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("expense")
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `UPDATE expenses SET title = $1, category = $2, amount = $3, date = $4::date WHERE id = $5`
	tag, err := r.db.Exec(ctx, query, expense.Title, expense.Category, expense.Amount,
		expense.Date.Format(common.DateLayout), expense.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("expense")
	}
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("expense")
	}
	return nil
}

// List returns expenses newest first within the inclusive filter range.
func (r *expenseRepo) List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	query := `
		SELECT id, title, category, amount, date, created_at
		FROM expenses
		WHERE ($1::date IS NULL OR date >= $1::date)
		  AND ($2::date IS NULL OR date <= $2::date)
		ORDER BY date DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, filter.Start, filter.End, limitArg(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.Title, &expense.Category, &expense.Amount, &expense.Date, &expense.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
