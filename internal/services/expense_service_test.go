package services

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExpenseService_CreateExpense(t *testing.T) {
	ctx := context.Background()
	repo := &MockExpenseRepository{}
	reports := &MockReportInvalidator{}
	svc := NewExpenseService(repo, reports, zap.NewNop())

	amount := decimal.RequireFromString("1250.75")
	repo.On("Create", ctx, mock.MatchedBy(func(e *models.Expense) bool {
		return e.Title == "Rent" && e.Category == "office" && e.Amount.Equal(amount) &&
			e.Date.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()
	reports.On("InvalidateReports", ctx).Return(nil).Once()

	exp, err := svc.CreateExpense(ctx, ExpenseInput{
		Title:    ptr("Rent"),
		Category: ptr("office"),
		Amount:   &amount,
		Date:     ptr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rent", exp.Title)
	repo.AssertExpectations(t)
	reports.AssertExpectations(t)
}

func TestExpenseService_CreateExpense_DefaultsDate(t *testing.T) {
	ctx := context.Background()
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, nil, zap.NewNop())

	amount := decimal.NewFromInt(10)
	repo.On("Create", ctx, mock.MatchedBy(func(e *models.Expense) bool {
		return e.Date.IsZero()
	})).Return(nil).Once()

	_, err := svc.CreateExpense(ctx, ExpenseInput{Title: ptr("Coffee"), Amount: &amount})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestExpenseService_CreateExpense_Validation(t *testing.T) {
	repo := &MockExpenseRepository{}
	svc := NewExpenseService(repo, nil, zap.NewNop())
	amount := decimal.NewFromInt(1)

	tests := []struct {
		name  string
		in    ExpenseInput
		field string
	}{
		{"missing title", ExpenseInput{Amount: &amount}, "title"},
		{"missing amount", ExpenseInput{Title: ptr("x")}, "amount"},
		{"bad date", ExpenseInput{Title: ptr("x"), Amount: &amount, Date: ptr("01/02/2024")}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), tt.in)
			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseService_UpdateExpense(t *testing.T) {
	ctx := context.Background()
	original := func() *models.Expense {
		return &models.Expense{ID: 4, Title: "Rent", Category: "office", Amount: decimal.NewFromInt(100),
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	}

	t.Run("patch changes only amount", func(t *testing.T) {
		repo := &MockExpenseRepository{}
		reports := &MockReportInvalidator{}
		svc := NewExpenseService(repo, reports, zap.NewNop())
		amount := decimal.NewFromInt(150)

		repo.On("GetByID", ctx, int64(4)).Return(original(), nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(e *models.Expense) bool {
			return e.Title == "Rent" && e.Amount.Equal(amount) && e.Date.Month() == time.January
		})).Return(nil).Once()
		reports.On("InvalidateReports", ctx).Return(nil).Once()

		_, err := svc.UpdateExpense(ctx, 4, ExpenseInput{Amount: &amount}, true)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("put requires all fields", func(t *testing.T) {
		repo := &MockExpenseRepository{}
		svc := NewExpenseService(repo, nil, zap.NewNop())
		amount := decimal.NewFromInt(150)

		_, err := svc.UpdateExpense(ctx, 4, ExpenseInput{Amount: &amount}, false)
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("missing expense", func(t *testing.T) {
		repo := &MockExpenseRepository{}
		svc := NewExpenseService(repo, nil, zap.NewNop())
		repo.On("GetByID", ctx, int64(99)).Return(nil, common.NotFound("expense")).Once()

		_, err := svc.UpdateExpense(ctx, 99, ExpenseInput{}, true)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestExpenseService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	repo := &MockExpenseRepository{}
	reports := &MockReportInvalidator{}
	svc := NewExpenseService(repo, reports, zap.NewNop())

	repo.On("Delete", ctx, int64(4)).Return(nil).Once()
	reports.On("InvalidateReports", ctx).Return(nil).Once()
	require.NoError(t, svc.DeleteExpense(ctx, 4))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := models.ExpenseFilter{Start: &start, Limit: 20}
	repo.On("List", ctx, filter).Return([]*models.Expense{{ID: 1}}, nil).Once()
	list, err := svc.ListExpenses(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	repo.AssertExpectations(t)
}
