package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/render"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FinanceReporter is the read side of the finance package.
type FinanceReporter interface {
	ComputeReport(ctx context.Context, rng models.DateRange) (*models.Report, error)
	MonthlySeries(ctx context.Context, endMonth time.Time) ([]models.MonthlyPoint, error)
}

type FinanceHandlers struct {
	reports  FinanceReporter
	company  services.CompanyService
	renderer render.ReportRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewFinanceHandlers wires the reporting endpoints. renderer may be nil, in
// which case only the PDF endpoint is unavailable.
func NewFinanceHandlers(reports FinanceReporter, company services.CompanyService, renderer render.ReportRenderer, logger *zap.Logger) *FinanceHandlers {
	return &FinanceHandlers{
		reports:  reports,
		company:  company,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Report godoc
// @Summary      Financial report
// @Tags         finance
// @Produce      json
// @Param        start query string false "Inclusive start date (YYYY-MM-DD)"
// @Param        end   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success      200 {object} models.Report
// @Failure      400 {object} common.ErrorResponse
// @Security     BearerAuth
// @Router       /finance/report [get]
func (h *FinanceHandlers) Report(c echo.Context) error {
	rng, err := dateRange(c)
	if err != nil {
		return err
	}
	report, err := h.reports.ComputeReport(c.Request().Context(), rng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ReportPDF godoc
// @Summary      Financial report as PDF
// @Tags         finance
// @Produce      application/pdf
// @Param        start query string false "Inclusive start date (YYYY-MM-DD)"
// @Param        end   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      500 {object} common.ErrorResponse
// @Security     BearerAuth
// @Router       /finance/report/pdf [get]
func (h *FinanceHandlers) ReportPDF(c echo.Context) error {
	if h.renderer == nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			"PDF rendering backend is not available. Configure a report renderer to enable PDF export.")
	}

	rng, err := dateRange(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	report, err := h.reports.ComputeReport(ctx, rng)
	if err != nil {
		return err
	}

	meta := render.Meta{Start: rng.Start, End: rng.End, GeneratedAt: h.now()}
	if settings, err := h.company.Get(ctx); err != nil {
		h.logger.Warn("company settings unavailable for report header", zap.Error(err))
	} else {
		meta.CompanyName = settings.CompanyName
		meta.Currency = settings.Currency
	}

	doc, err := h.renderer.Render(report, meta)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render the finance report PDF.").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=finance-report.pdf")
	return c.Blob(http.StatusOK, h.renderer.ContentType(), doc)
}

// Monthly godoc
// @Summary      Twelve month income and expense series
// @Tags         finance
// @Produce      json
// @Param        month query string false "Last month of the series (YYYY-MM), defaults to the current month"
// @Success      200 {array} models.MonthlyPoint
// @Security     BearerAuth
// @Router       /finance/monthly [get]
func (h *FinanceHandlers) Monthly(c echo.Context) error {
	var endMonth time.Time
	if raw := strings.TrimSpace(c.QueryParam("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be in YYYY-MM format")
		}
		endMonth = parsed
	}

	series, err := h.reports.MonthlySeries(c.Request().Context(), endMonth)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}
