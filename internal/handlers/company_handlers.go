package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

type CompanyHandlers struct {
	companyService services.CompanyService
}

func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

// GetSettings handles GET /settings/company
func (h *CompanyHandlers) GetSettings(c echo.Context) error {
	settings, err := h.companyService.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT and PATCH /settings/company. Every field has a
// default, so both methods only change what was sent.
func (h *CompanyHandlers) UpdateSettings(c echo.Context) error {
	var req services.CompanyInput
	var logo *services.Upload

	if isMultipart(c) {
		fields := map[string]**string{
			"company_name": &req.CompanyName,
			"address":      &req.Address,
			"phone":        &req.Phone,
			"currency":     &req.Currency,
			"theme":        &req.Theme,
		}
		for name, dst := range fields {
			v, err := formString(c, name)
			if err != nil {
				return err
			}
			*dst = v
		}
		upload, closeLogo, err := formUpload(c, "logo")
		if err != nil {
			return err
		}
		defer closeLogo()
		logo = upload
		if err := c.Validate(&req); err != nil {
			return err
		}
	} else if err := bindJSON(c, &req); err != nil {
		return err
	}

	settings, err := h.companyService.Update(c.Request().Context(), req, logo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
