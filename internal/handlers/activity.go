package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

// actor returns the caller identity from the X-Actor header. It is
// accepted as given; there is no auth system behind it.
func actor(c *fiber.Ctx) string {
	if a := c.Get("X-Actor"); a != "" {
		return a
	}
	return "anonymous"
}

// logActivity records a mutation in the activity log. Best effort: a
// failed write never fails the request that triggered it.
func logActivity(c *fiber.Ctx, action, details string) {
	if !database.Ready() {
		return
	}
	database.DB.Create(&models.ActivityLog{
		Actor:   actor(c),
		Action:  action,
		Details: details,
		IP:      c.IP(),
	})
}

// GetActivity returns the most recent activity log entries.
func GetActivity(c *fiber.Ctx) error {
	if !database.Ready() {
		return respondError(c, database.ErrNotConnected)
	}

	limit := c.QueryInt("limit", 50)
	_, limit = models.ClampWindow(1, limit)

	entries := []models.ActivityLog{}
	if err := database.DB.Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{"entries": entries})
}
