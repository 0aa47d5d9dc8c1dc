package services

import (
	"context"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ExpenseInput struct {
	Title    *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Category *string          `json:"category" validate:"omitempty,max=100"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error)
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, in ExpenseInput, partial bool) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error)
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
	reports     ReportInvalidator
	logger      *zap.Logger
}

func NewExpenseService(expenseRepo repositories.ExpenseRepository, reports ReportInvalidator, logger *zap.Logger) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, reports: reports, logger: logger}
}

func requireExpenseFields(in ExpenseInput) error {
	verr := &common.ValidationError{}
	if in.Title == nil {
		verr.Add("title", "This field is required.")
	}
	if in.Amount == nil {
		verr.Add("amount", "This field is required.")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func applyExpense(e *models.Expense, in ExpenseInput) error {
	assign(&e.Title, in.Title)
	assign(&e.Category, in.Category)
	assign(&e.Amount, in.Amount)
	if in.Date != nil {
		d, err := time.Parse(common.DateLayout, *in.Date)
		if err != nil {
			return common.NewValidationError("date", "Date has wrong format. Use YYYY-MM-DD.")
		}
		e.Date = d
	}
	return nil
}

func (s *expenseService) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := requireExpenseFields(in); err != nil {
		return nil, err
	}
	expense := &models.Expense{}
	if err := applyExpense(expense, in); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

func (s *expenseService) UpdateExpense(ctx context.Context, id int64, in ExpenseInput, partial bool) (*models.Expense, error) {
	if !partial {
		if err := requireExpenseFields(in); err != nil {
			return nil, err
		}
	}
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyExpense(expense, in); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	return s.expenseRepo.List(ctx, filter)
}

func (s *expenseService) invalidate(ctx context.Context) {
	if s.reports == nil {
		return
	}
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
