package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

// respondOK wraps data in the success envelope every endpoint uses.
func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// respondError is the single classification point for repository failures.
// Validation maps to 400, missing ids to 404, a missing store to 503 with
// the requires_database flag (so the UI can tell demo mode apart from bad
// input), and anything else to a logged 500 with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   verr.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "not found",
		})
	case errors.Is(err, database.ErrNotConnected):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success":           false,
			"error":             "database not connected",
			"message":           "Connect a database to manage live data. The panel is running in demo mode.",
			"requires_database": true,
		})
	default:
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "internal error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
