package repositories

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/models"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseRepo_ListInclusiveRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	limit := 10

	mock.ExpectQuery(`date <= \$2::date`).WithArgs(&start, &end, &limit, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "category", "amount", "date", "created_at"}).
			AddRow(int64(1), "Rent", "office", decimal.NewFromInt(100), end, end))

	expenses, err := NewExpenseRepo(mock).List(context.Background(), models.ExpenseFilter{Start: &start, End: &end, Limit: 10})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Rent", expenses[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepo_CreateDefaultsDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	expense := &models.Expense{Title: "Fuel", Amount: decimal.NewFromInt(40)}

	mock.ExpectQuery(`COALESCE\(\$4::date, CURRENT_DATE\)`).
		WithArgs("Fuel", "", expense.Amount, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date", "created_at"}).AddRow(int64(3), today, today))

	require.NoError(t, NewExpenseRepo(mock).Create(context.Background(), expense))
	assert.Equal(t, today, expense.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
