package handlers

import (
	"net/http"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

type ExpenseHandlers struct {
	expenseService services.ExpenseService
}

func NewExpenseHandlers(expenseService services.ExpenseService) *ExpenseHandlers {
	return &ExpenseHandlers{expenseService: expenseService}
}

// ListExpenses handles GET /expenses with inclusive ?start and ?end dates.
func (h *ExpenseHandlers) ListExpenses(c echo.Context) error {
	rng, err := dateRange(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	expenses, err := h.expenseService.ListExpenses(c.Request().Context(), models.ExpenseFilter{
		Start:  rng.Start,
		End:    rng.End,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	var req services.ExpenseInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	expense, err := h.expenseService.CreateExpense(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandlers) GetExpense(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	expense, err := h.expenseService.GetExpense(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) UpdateExpense(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.ExpenseInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	expense, err := h.expenseService.UpdateExpense(c.Request().Context(), id, req, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) DeleteExpense(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.expenseService.DeleteExpense(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// dateRange reads ?start and ?end as YYYY-MM-DD; either may be omitted.
func dateRange(c echo.Context) (models.DateRange, error) {
	start, err := common.ParseOptionalDate(c.QueryParam("start"), "start")
	if err != nil {
		return models.DateRange{}, err
	}
	end, err := common.ParseOptionalDate(c.QueryParam("end"), "end")
	if err != nil {
		return models.DateRange{}, err
	}
	return models.DateRange{Start: start, End: end}, nil
}
