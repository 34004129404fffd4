package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/service"
)

// BearerAuthMiddleware проверяет access-токен из заголовка Authorization.
// Отсутствующий токен — 401, невалидный или истекший — 403; downstream
// handler в обоих случаях не вызывается. Проверенные claims кладутся
// в контекст под models.ClaimsContextKey.
func BearerAuthMiddleware(authService *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := bearerToken(header)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}

			claims, err := authService.VerifyAccess(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			c.Set(models.ClaimsContextKey, claims)

			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
