package main

import (
	errs "errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/jahandaniyal/notes-api/internal/engine"
)

// httpErrorHandler is the single place where the engine's error taxonomy
// becomes HTTP status codes.
func httpErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var detail string

		var validationErr engine.ValidationError
		var httpErr *echo.HTTPError
		switch {
		case errs.As(err, &validationErr):
			status = http.StatusUnprocessableEntity
			detail = validationErr.Error()
		case errs.Is(err, engine.ErrUnauthenticated):
			status = http.StatusUnauthorized
			detail = "authentication required"
		case errs.Is(err, engine.ErrPermissionDenied):
			status = http.StatusForbidden
			detail = "permission denied"
		case errs.Is(err, engine.ErrNotFound):
			status = http.StatusNotFound
			detail = "not found"
		case errs.As(err, &httpErr):
			status = httpErr.Code
			detail = fmt.Sprintf("%v", httpErr.Message)
		default:
			status = http.StatusInternalServerError
			detail = "internal server error"
			logrus.Error(goerrors.Wrap(err, 0).ErrorStack())
		}

		if err := c.JSON(status, map[string]string{"detail": detail}); err != nil {
			logrus.Error(err)
		}
	}
}
