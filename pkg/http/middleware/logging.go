package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	xlogger "MarketGate/pkg/logger"
)

// RequestLogging logs HTTP requests.
func RequestLogging(logger *xlogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			logger.Info("http request",
				xlogger.String("method", req.Method),
				xlogger.String("uri", req.RequestURI),
				xlogger.String("remote", req.RemoteAddr),
				xlogger.Int("status", res.Status),
				xlogger.Duration("latency", time.Since(start)),
			)

			return err
		}
	}
}
