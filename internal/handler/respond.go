package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
)

var development = true

// Init sets whether unexpected error detail is surfaced to callers.
func Init(dev bool) {
	development = dev
}

// respond writes the success envelope shared by every endpoint.
func respond(c echo.Context, status int, data interface{}, message string) error {
	body := echo.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(status, body)
}

// fail maps an error to the failure envelope. Classified errors carry their
// own title and message; everything else is logged with full detail and
// surfaced as a generic failure, with the message elided outside development.
func fail(c echo.Context, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		body := echo.Map{"success": false, "error": appErr.Title}
		if appErr.Message != "" {
			body["message"] = appErr.Message
		}
		return c.JSON(apperr.HTTPStatus(appErr.Kind), body)
	}

	logger.FromEcho(c).Error("unexpected failure", zap.Error(err))
	body := echo.Map{"success": false, "error": "internal server error"}
	if development {
		body["message"] = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}
