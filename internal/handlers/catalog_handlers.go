package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// CatalogHandlers serves billable services and employees.
type CatalogHandlers struct {
	catalog services.CatalogService
}

func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

func (h *CatalogHandlers) ListServices(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.ListServices(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandlers) CreateService(c echo.Context) error {
	var req services.ServiceInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.CreateService(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandlers) GetService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.GetService(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandlers) UpdateService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.ServiceInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.UpdateService(c.Request().Context(), id, req, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// DeleteService answers 409 while invoice items still reference the service.
func (h *CatalogHandlers) DeleteService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteService(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandlers) ListEmployees(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.ListEmployees(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandlers) CreateEmployee(c echo.Context) error {
	var req services.EmployeeInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	emp, err := h.catalog.CreateEmployee(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, emp)
}

func (h *CatalogHandlers) GetEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	emp, err := h.catalog.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *CatalogHandlers) UpdateEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.EmployeeInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	emp, err := h.catalog.UpdateEmployee(c.Request().Context(), id, req, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *CatalogHandlers) DeleteEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteEmployee(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
