package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/metrics"
)

// Metrics counts every API request after the handler runs. Route pattern
// is used instead of the raw path so ids do not explode the label set.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()

		return err
	}
}
