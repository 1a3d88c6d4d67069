package ratelimit

import (
	xhttp "CollegeROI/pkg/http"
	"CollegeROI/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Middleware limits each client IP per route. Requests over the limit get 429.
func Middleware(l *Limiter, capacity, refillPerSec float64, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()
			if !l.Allow(key, capacity, refillPerSec) {
				if log != nil {
					log.Warn("rate limited",
						logger.String("remote", c.RealIP()),
						logger.String("path", c.Path()),
					)
				}
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded").
					WithParam("capacity", capacity).
					WithParam("refill_per_sec", refillPerSec))
			}
			return next(c)
		}
	}
}
