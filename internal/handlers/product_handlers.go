package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req services.ProductInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	product, err := h.productService.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT and PATCH /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.ProductInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	product, err := h.productService.UpdateProduct(c.Request().Context(), id, req, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles GET /products with optional ?search, ?limit and ?offset.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	search := strings.TrimSpace(c.QueryParam("search"))
	products, err := h.productService.ListProducts(c.Request().Context(), search, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func isPatch(c echo.Context) bool {
	return c.Request().Method == http.MethodPatch
}
