package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/connections"
)

// GetConnections returns one page of tracked connections, same list shape
// as the rules endpoint.
func GetConnections(c *fiber.Ctx) error {
	page, limit := models.ClampWindow(c.QueryInt("page", 1), c.QueryInt("limit", models.DefaultPageLimit))
	f := connections.Filters{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("search"),
		Protocol: models.Protocol(c.Query("protocol")),
		State:    c.Query("state"),
	}

	list, total, err := connections.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{
		"connections": list,
		"pagination":  models.NewPagination(f.Page, f.Limit, total),
	})
}

// RecordConnection lets an external collector post a flow record.
func RecordConnection(c *fiber.Ctx) error {
	var in connections.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	conn, err := connections.Record(in)
	if err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, conn, "Connection recorded")
}

// GetConnectionSummary returns the aggregate header numbers.
func GetConnectionSummary(c *fiber.Ctx) error {
	summary, err := connections.GetSummary()
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, summary)
}
