package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers covers the caller's own profile and staff user administration.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
	Token       string `json:"token" validate:"required"`
}

type ProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=150"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// GetProfile handles GET /users/profile
func (h *UserHandlers) GetProfile(c echo.Context) error {
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

// UpdateProfile handles PATCH /users/profile with JSON or a multipart form carrying an avatar.
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	var update services.ProfileUpdate
	if isMultipart(c) {
		if req.DisplayName, err = formString(c, "display_name"); err != nil {
			return err
		}
		if req.Email, err = formString(c, "email"); err != nil {
			return err
		}
		avatar, closeAvatar, err := formUpload(c, "avatar")
		if err != nil {
			return err
		}
		defer closeAvatar()
		update.Avatar = avatar
		if err := c.Validate(&req); err != nil {
			return err
		}
	} else if err := bindJSON(c, &req); err != nil {
		return err
	}
	update.DisplayName = req.DisplayName
	update.Email = req.Email

	me, err := h.userService.UpdateProfile(c.Request().Context(), userID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

// ChangePassword handles POST /users/change-password
func (h *UserHandlers) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "رمز عبور با موفقیت تغییر کرد"})
}

// ResetPassword handles POST /users/reset-password
func (h *UserHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.userService.ResetPassword(c.Request().Context(), req.Username, req.NewPassword, req.Token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "Password has been reset."})
}

// ListUsers handles GET /users
func (h *UserHandlers) ListUsers(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	users, err := h.userService.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req services.CreateUserInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.userService.CreateUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /users/:id
func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT and PATCH /users/:id
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.UpdateUserInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id by deactivating the account.
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeactivateUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
