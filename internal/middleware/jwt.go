package middleware

import (
	"context"
	"errors"
	"net/http"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "token_claims"

// UserLookup loads the account behind a token so deactivated users are rejected
// even while their access token is still valid.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// JWTMiddleware validates bearer tokens and stores the user id, username and
// staff flag on the request context.
func JWTMiddleware(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authSvc.ValidateToken(auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsContextKey).(*services.TokenClaims)
			if !ok {
				return
			}
			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, common.UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, common.IsStaffKey, claims.IsStaff)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
		},
	})
}

// ActiveUser re-reads the authenticated user. Inactive or deleted accounts get
// 401 and the staff flag on the context is refreshed from the database.
func ActiveUser(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}

			user, err := users.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
				}
				return err
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "User is inactive")
			}

			ctx = context.WithValue(ctx, common.IsStaffKey, user.IsStaff)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
