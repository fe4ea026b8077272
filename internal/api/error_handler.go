package api

import (
	"errors"
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError
	var ce *constants.CodedError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ce):
		code = ce.Code()
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
