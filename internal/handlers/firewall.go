package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/metrics"
	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/rules"
)

func ruleFilters(c *fiber.Ctx) rules.Filters {
	page, limit := models.ClampWindow(c.QueryInt("page", 1), c.QueryInt("limit", models.DefaultPageLimit))
	return rules.Filters{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
		Action: models.Action(c.Query("action")),
	}
}

// GetFirewallRules returns one page of rules with the pagination block.
func GetFirewallRules(c *fiber.Ctx) error {
	f := ruleFilters(c)
	list, total, err := rules.GetRules(f)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{
		"rules":      list,
		"pagination": models.NewPagination(f.Page, f.Limit, total),
	})
}

// GetFirewallRule returns a single rule by id.
func GetFirewallRule(c *fiber.Ctx) error {
	rule, err := rules.GetRuleByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, rule)
}

// GetFirewallRuleStats returns the aggregate counters for the stat cards.
func GetFirewallRuleStats(c *fiber.Ctx) error {
	stats, err := rules.GetRuleStats()
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, stats)
}

// CreateFirewallRule validates and inserts a rule.
func CreateFirewallRule(c *fiber.Ctx) error {
	var in rules.CreateRuleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.CreatedBy == "" {
		in.CreatedBy = actor(c)
	}

	rule, err := rules.CreateRule(in)
	if err != nil {
		metrics.RuleOperations.WithLabelValues("create", "error").Inc()
		return respondError(c, err)
	}
	metrics.RuleOperations.WithLabelValues("create", "ok").Inc()
	logActivity(c, "rule.create", rule.Name)
	return respondMessage(c, rule, "Rule created")
}

// UpdateFirewallRule merges a partial update onto one rule.
func UpdateFirewallRule(c *fiber.Ctx) error {
	var in rules.UpdateRuleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	rule, err := rules.UpdateRule(c.Params("id"), in)
	if err != nil {
		metrics.RuleOperations.WithLabelValues("update", "error").Inc()
		return respondError(c, err)
	}
	metrics.RuleOperations.WithLabelValues("update", "ok").Inc()
	logActivity(c, "rule.update", rule.Name)
	return respondMessage(c, rule, "Rule updated")
}

// DeleteFirewallRule hard-removes one rule.
func DeleteFirewallRule(c *fiber.Ctx) error {
	deleted, err := rules.DeleteRule(c.Params("id"))
	if err != nil {
		metrics.RuleOperations.WithLabelValues("delete", "error").Inc()
		return respondError(c, err)
	}
	metrics.RuleOperations.WithLabelValues("delete", "ok").Inc()
	logActivity(c, "rule.delete", deleted.Name)
	return respondMessage(c, deleted, "Rule deleted")
}

// PatchFirewallRule handles the dedicated atomic actions on a rule:
// toggle, hit and resetHits.
func PatchFirewallRule(c *fiber.Ctx) error {
	type Request struct {
		Action string `json:"action"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	id := c.Params("id")
	switch req.Action {
	case "toggle":
		rule, err := rules.ToggleRule(id)
		if err != nil {
			return respondError(c, err)
		}
		logActivity(c, "rule.toggle", rule.Name)
		return respondMessage(c, rule, "Rule toggled")
	case "hit":
		if err := rules.IncrementHitCount(id); err != nil {
			return respondError(c, err)
		}
		return respondMessage(c, fiber.Map{"id": id}, "Hit recorded")
	case "resetHits":
		if err := rules.ResetHitCount(id); err != nil {
			return respondError(c, err)
		}
		logActivity(c, "rule.resetHits", id)
		return respondMessage(c, fiber.Map{"id": id}, "Hit counter reset")
	default:
		return badRequest(c, "unknown action: "+req.Action)
	}
}

// BulkUpdateFirewallRules applies one patch to a set of ids with
// partial-success counts.
func BulkUpdateFirewallRules(c *fiber.Ctx) error {
	type Request struct {
		IDs    []string              `json:"ids"`
		Update rules.UpdateRuleInput `json:"update"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids must not be empty")
	}

	result, err := rules.BulkUpdate(req.IDs, req.Update)
	if err != nil {
		metrics.RuleOperations.WithLabelValues("bulk_update", "error").Inc()
		return respondError(c, err)
	}
	metrics.RuleOperations.WithLabelValues("bulk_update", "ok").Inc()
	logActivity(c, "rule.bulkUpdate", fmt.Sprintf("%d of %d modified", result.Modified, result.Requested))
	return respondOK(c, result)
}

// BulkDeleteFirewallRules removes a set of ids with partial-success
// counts.
func BulkDeleteFirewallRules(c *fiber.Ctx) error {
	type Request struct {
		IDs []string `json:"ids"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids must not be empty")
	}

	result, err := rules.BulkDelete(req.IDs)
	if err != nil {
		metrics.RuleOperations.WithLabelValues("bulk_delete", "error").Inc()
		return respondError(c, err)
	}
	metrics.RuleOperations.WithLabelValues("bulk_delete", "ok").Inc()
	logActivity(c, "rule.bulkDelete", fmt.Sprintf("%d of %d deleted", result.Deleted, result.Requested))
	return respondOK(c, result)
}

// GetRuleTemplates lists the built-in rule presets.
func GetRuleTemplates(c *fiber.Ctx) error {
	return respondOK(c, fiber.Map{"templates": rules.Templates()})
}

// ApplyRuleTemplate creates a rule from a preset.
func ApplyRuleTemplate(c *fiber.Ctx) error {
	rule, err := rules.ApplyTemplate(c.Params("id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	logActivity(c, "rule.template", rule.Name)
	return respondMessage(c, rule, "Rule created from template")
}
