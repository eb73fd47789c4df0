package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/services/connections"
	"ngfw-panel/internal/services/monitor"
	"ngfw-panel/internal/services/rules"
	"ngfw-panel/internal/services/threats"
)

// GetDashboard aggregates everything the landing page cards need in one
// call: appliance health plus rule, connection and threat counters.
func GetDashboard(c *fiber.Ctx) error {
	stats, err := monitor.GetSystemStats()
	if err != nil {
		return respondError(c, err)
	}

	data := fiber.Map{
		"system":   stats,
		"database": database.Ready(),
	}
	if database.Ready() {
		if s, err := rules.GetRuleStats(); err == nil {
			data["rules"] = s
		}
		if s, err := threats.GetSummary(); err == nil {
			data["threats"] = s
		}
		if s, err := connections.GetSummary(); err == nil {
			data["connections"] = s
		}
	}

	return respondOK(c, data)
}

// GetSystemStats returns only the appliance health snapshot.
func GetSystemStats(c *fiber.Ctx) error {
	stats, err := monitor.GetSystemStats()
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, stats)
}
