package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/metrics"
	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/rules"
	"ngfw-panel/internal/services/threats"
)

// GetThreatEvents returns one page of threat events.
func GetThreatEvents(c *fiber.Ctx) error {
	page, limit := models.ClampWindow(c.QueryInt("page", 1), c.QueryInt("limit", models.DefaultPageLimit))
	f := threats.Filters{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("search"),
		Severity: models.Severity(c.Query("severity")),
		Category: c.Query("category"),
	}

	list, total, err := threats.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{
		"events":     list,
		"pagination": models.NewPagination(f.Page, f.Limit, total),
	})
}

// RecordThreatEvent ingests a detection from the (out-of-scope) inspection
// path. When the event names a matched rule, the rule's hit counter is
// bumped through its atomic increment.
func RecordThreatEvent(c *fiber.Ctx) error {
	var in threats.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	event, err := threats.Record(in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.ThreatsRecorded.WithLabelValues(string(event.Severity)).Inc()

	if event.RuleID != "" {
		// Missing rule ids are tolerated; the event stands on its own.
		rules.IncrementHitCount(event.RuleID)
	}

	return respondMessage(c, event, "Threat recorded")
}

// GetThreatSummary returns the aggregate counters for the threat cards.
func GetThreatSummary(c *fiber.Ctx) error {
	summary, err := threats.GetSummary()
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, summary)
}
