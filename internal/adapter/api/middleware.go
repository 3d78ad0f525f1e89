package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/burenotti/gym_tracker_backend/internal/app/auth"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
)

const KeyCurrentUser = "current_user"

func LoginRequired(authorizer *auth.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			parts := strings.Split(header, " ")
			if len(parts) != 2 {
				return JsonError(c, http.StatusUnauthorized, "Invalid Authorization header")
			}
			if parts[0] != "Bearer" {
				return JsonError(c, http.StatusUnauthorized, "Invalid Authorization header")
			}
			u, err := authorizer.ValidateAccessToken(parts[1])
			if err != nil {
				return JsonError(c, http.StatusUnauthorized, err.Error())
			}
			c.Set(KeyCurrentUser, u)
			if err := next(c); err != nil {
				c.Error(err)
			}
			return nil
		}
	}
}

// RequireRole must run after LoginRequired.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := c.Get(KeyCurrentUser).(*auth.AccessTokenData)
			if !ok {
				return JsonError(c, http.StatusUnauthorized, "unauthorized")
			}
			if !slices.Contains(roles, u.Role) {
				return JsonError(c, http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *auth.AccessTokenData {
	return c.Get(KeyCurrentUser).(*auth.AccessTokenData)
}
