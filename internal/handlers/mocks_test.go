package handlers

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/render"
	"backoffice/internal/services"

	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *mockUserService) Me(ctx context.Context, userID int64) (*models.CurrentUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentUser), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int64, in services.ProfileUpdate) (*models.CurrentUser, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentUser), args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *mockUserService) ResetPassword(ctx context.Context, username, newPassword, token string) error {
	return m.Called(ctx, username, newPassword, token).Error(0)
}

func (m *mockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserService) CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id int64, in services.UpdateUserInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *mockUserService) DeactivateUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func userOrNil(v interface{}) *models.User {
	if v == nil {
		return nil
	}
	return v.(*models.User)
}

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) CreateInvoice(ctx context.Context, in services.InvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, in)
	return invoiceOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInvoiceService) ReplaceInvoice(ctx context.Context, id int64, in services.InvoiceInput, partial bool) (*models.Invoice, error) {
	args := m.Called(ctx, id, in, partial)
	return invoiceOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInvoiceService) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	return invoiceOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInvoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *mockInvoiceService) Summary(ctx context.Context) (*models.InvoiceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceSummary), args.Error(1)
}

func invoiceOrNil(v interface{}) *models.Invoice {
	if v == nil {
		return nil
	}
	return v.(*models.Invoice)
}

type mockExpenseService struct {
	mock.Mock
}

func (m *mockExpenseService) CreateExpense(ctx context.Context, in services.ExpenseInput) (*models.Expense, error) {
	args := m.Called(ctx, in)
	return expenseOrNil(args.Get(0)), args.Error(1)
}

func (m *mockExpenseService) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	args := m.Called(ctx, id)
	return expenseOrNil(args.Get(0)), args.Error(1)
}

func (m *mockExpenseService) UpdateExpense(ctx context.Context, id int64, in services.ExpenseInput, partial bool) (*models.Expense, error) {
	args := m.Called(ctx, id, in, partial)
	return expenseOrNil(args.Get(0)), args.Error(1)
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockExpenseService) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Expense), args.Error(1)
}

func expenseOrNil(v interface{}) *models.Expense {
	if v == nil {
		return nil
	}
	return v.(*models.Expense)
}

type mockCatalogService struct {
	mock.Mock
	services.CatalogService
}

func (m *mockCatalogService) DeleteService(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCompanyService struct {
	mock.Mock
}

func (m *mockCompanyService) Get(ctx context.Context) (*models.CompanySetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanySetting), args.Error(1)
}

func (m *mockCompanyService) Update(ctx context.Context, in services.CompanyInput, logo *services.Upload) (*models.CompanySetting, error) {
	args := m.Called(ctx, in, logo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanySetting), args.Error(1)
}

type mockFinance struct {
	mock.Mock
}

func (m *mockFinance) ComputeReport(ctx context.Context, rng models.DateRange) (*models.Report, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *mockFinance) MonthlySeries(ctx context.Context, endMonth time.Time) ([]models.MonthlyPoint, error) {
	args := m.Called(ctx, endMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyPoint), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(report *models.Report, meta render.Meta) ([]byte, error) {
	args := m.Called(report, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockRenderer) ContentType() string {
	return "application/pdf"
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
