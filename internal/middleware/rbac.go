package middleware

import (
	"net/http"

	"backoffice/internal/common"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RBACMiddleware struct {
	rbacService services.RBACService
	logger      *zap.Logger
}

func NewRBACMiddleware(rbacService services.RBACService, logger *zap.Logger) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService: rbacService,
		logger:      logger,
	}
}

// RequirePermission gates a route group on object. Safe methods need the read
// action, everything else needs write.
func (m *RBACMiddleware) RequirePermission(object string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}

			action := actionFor(c.Request().Method)
			allowed, err := m.rbacService.Authorize(common.IsStaffFromContext(ctx), object, action)
			if err != nil {
				m.logger.Error("permission check failed", zap.Int64("user_id", userID), zap.String("object", object), zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking permission")
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
			}

			return next(c)
		}
	}
}

func actionFor(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return services.ActionRead
	default:
		return services.ActionWrite
	}
}
