package middleware

import (
	"time"

	"CollegeROI/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request.
func RequestLogging(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", c.RealIP()),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency_ms", time.Since(start)),
			}
			if c.Response().Status >= 500 {
				l.Warn("request failed", fields...)
			} else {
				l.Debug("request", fields...)
			}
			return nil
		}
	}
}
