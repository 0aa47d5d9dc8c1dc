package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"go.uber.org/zap"
)

// ReportInvalidator drops cached finance reports after ledger writes.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context) error
}

type InvoiceInput struct {
	CustomerName *string                    `json:"customer_name" validate:"omitempty,min=1,max=200"`
	Items        *[]models.InvoiceItemInput `json:"items" validate:"omitempty,dive"`
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error)
	ReplaceInvoice(ctx context.Context, id int64, in InvoiceInput, partial bool) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	Summary(ctx context.Context) (*models.InvoiceSummary, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	reports     ReportInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, reports ReportInvalidator, logger *zap.Logger) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		reports:     reports,
		logger:      logger,
		now:         time.Now,
	}
}

// validateItems re-checks item rules so the service is safe without the HTTP validator.
func validateItems(items []models.InvoiceItemInput) error {
	verr := &common.ValidationError{}
	for i, it := range items {
		if it.ServiceID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].service", i), "This field is required.")
		}
		if it.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "Ensure this value is greater than 0.")
		}
		if it.Price.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].price", i), "Ensure this value is greater than or equal to 0.")
		}
		if it.Discount.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].discount", i), "Ensure this value is greater than or equal to 0.")
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	if in.CustomerName == nil {
		return nil, common.NewValidationError("customer_name", "This field is required.")
	}
	var items []models.InvoiceItemInput
	if in.Items != nil {
		items = *in.Items
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	id, err := s.invoiceRepo.Create(ctx, *in.CustomerName, items)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("invoice created", zap.Int64("invoice_id", id), zap.Int("items", len(items)))
	return s.invoiceRepo.GetByID(ctx, id)
}

// ReplaceInvoice implements PUT (partial=false) and PATCH. Omitted items are kept;
// an empty list clears them.
func (s *invoiceService) ReplaceInvoice(ctx context.Context, id int64, in InvoiceInput, partial bool) (*models.Invoice, error) {
	if !partial && in.CustomerName == nil {
		return nil, common.NewValidationError("customer_name", "This field is required.")
	}
	if in.Items != nil {
		if err := validateItems(*in.Items); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Replace(ctx, id, in.CustomerName, in.Items); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) Summary(ctx context.Context) (*models.InvoiceSummary, error) {
	return s.invoiceRepo.Summary(ctx, s.now())
}

func (s *invoiceService) invalidate(ctx context.Context) {
	if s.reports == nil {
		return
	}
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
