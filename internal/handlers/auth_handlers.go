package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration and token endpoints.
type AuthHandlers struct {
	userService services.UserService
	authService services.AuthService
}

func NewAuthHandlers(userService services.UserService, authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Register handles POST /register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary      Obtain a token pair
// @Description  Exchange username and password for access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} models.TokenResponse
// @Failure      400 {object} common.ErrorResponse
// @Failure      401 {object} common.ErrorResponse
// @Failure      429 {object} common.ErrorResponse
// @Router       /token [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tokens, err := h.userService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  The presented refresh token is consumed and a new pair is issued
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} models.TokenResponse
// @Failure      401 {object} common.ErrorResponse
// @Router       /token/refresh [post]
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

// Revoke handles POST /token/revoke
func (h *AuthHandlers) Revoke(c echo.Context) error {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.authService.RevokeToken(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	me, err := h.userService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}
