package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler переводит ошибки сервисного слоя в статусы, с которыми
// работает клиент. Всё, что не входит в таксономию, становится
// непрозрачным 500.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if status, ok := serviceErrorStatus(err); ok {
			if jsonErr := c.JSON(status, ErrorResponse{Error: err.Error()}); jsonErr != nil {
				log.Errorw("failed to write json response", "error", jsonErr)
			}
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			if jsonErr := c.JSON(he.Code, ErrorResponse{Error: msg}); jsonErr != nil {
				log.Errorw("failed to write json response", "error", jsonErr)
			}
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		if jsonErr := c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}); jsonErr != nil {
			log.Errorw("failed to write json response", "error", jsonErr)
		}
	}
}

func serviceErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrTaskTitleRequired):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenInvalid):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, true
	default:
		return 0, false
	}
}
