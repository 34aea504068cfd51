package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/metrics"
)

// contactLimiter allows perMinute submissions per client IP, bursting up to
// the same amount.
func contactLimiter(perMinute int, deny echo.HandlerFunc) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 5 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			metrics.RecordContactSubmission(contact.StatusThrottled)
			c.Response().Header().Set("Retry-After", "60")
			return deny(c)
		},
	})
}
