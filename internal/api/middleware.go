package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/covidstat/internal/pkg/logger"
)

func newRequestID() string {
	return uuid.NewString()
}

// requestContext carries the request id into the request context so service logs can be correlated.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			req := ctx.Request()
			ctx.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		}

		return next(ctx)
	}
}

func requestLoggerConfig() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				kv = append(kv, "error", v.Error.Error())
			}

			logger.Infow(c.Request().Context(), "request", kv...)
			return nil
		},
	}
}
