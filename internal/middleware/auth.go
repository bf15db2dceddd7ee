package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/jwtutil"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

const accountContextKey = "account"

// Auth validates the bearer token and loads the calling account into the
// echo context. Every core route sits behind this middleware.
func Auth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
			}

			account, err := auth.Authenticate(c.Request().Context(), claims.AccountID)
			if err != nil {
				log.Error("Token does not resolve to an account", zap.String("account_id", claims.AccountID))
				prometheus.RecordAuthError("unknown_account")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
			}

			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// AccountFrom returns the authenticated account stored by Auth, or nil.
func AccountFrom(c echo.Context) *model.Account {
	account, ok := c.Get(accountContextKey).(*model.Account)
	if !ok {
		return nil
	}
	return account
}
