package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

// CreateInvoice handles POST /invoices. The invoice and its items are written together.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	var req services.InvoiceInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles PUT and PATCH /invoices/:id. A present "items" key
// replaces every item; an absent one leaves items alone.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.InvoiceInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.ReplaceInvoice(c.Request().Context(), id, req, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.invoiceService.DeleteInvoice(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

// Summary handles GET /invoices/summary
func (h *InvoiceHandlers) Summary(c echo.Context) error {
	summary, err := h.invoiceService.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
