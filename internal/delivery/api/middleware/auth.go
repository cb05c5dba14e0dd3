// Package middleware contains echo middleware specific to the JSON API.
package middleware

import (
	"strings"

	"rentalhub/internal/delivery/api/response"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
}

// AuthMiddleware turns bearer tokens into the request principal.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: params.TokenService}
}

// Authenticate validates the access token and stores the principal on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		principal := claims.Principal()
		deliverycontext.SetPrincipal(c, principal)
		if logger := deliverycontext.GetLogger(c.Request().Context()); logger != nil {
			ctx := deliverycontext.WithLogger(c.Request().Context(), logger.With("user_id", principal.ID.String()))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireStaff lets only admins and moderators through. It must run after Authenticate.
func (m *AuthMiddleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := deliverycontext.GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "MISSING_PRINCIPAL", "Authentication required")
		}
		if !principal.IsStaff() {
			return response.Forbidden(c, "STAFF_ONLY", "Permission denied: requires "+entity.RoleAdmin.String()+" or "+entity.RoleModerator.String()+" role")
		}

		return next(c)
	}
}
