package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/vpn"
)

// GetVPNUsers returns one page of VPN user records.
func GetVPNUsers(c *fiber.Ctx) error {
	page, limit := models.ClampWindow(c.QueryInt("page", 1), c.QueryInt("limit", models.DefaultPageLimit))
	f := vpn.Filters{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if connected := c.Query("connected"); connected != "" {
		v := connected == "true"
		f.Connected = &v
	}

	users, total, err := vpn.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{
		"users":      users,
		"pagination": models.NewPagination(f.Page, f.Limit, total),
	})
}

// CreateVPNUser adds a user record.
func CreateVPNUser(c *fiber.Ctx) error {
	var in vpn.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := vpn.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	logActivity(c, "vpn.create", user.Username)
	return respondMessage(c, user, "VPN user created")
}

// UpdateVPNUser merges a partial update, or flips enabled when the body is
// {action: "toggle"}.
func UpdateVPNUser(c *fiber.Ctx) error {
	type Request struct {
		Action string `json:"action"`
		vpn.UpdateUserInput
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	id := c.Params("id")
	if req.Action == "toggle" {
		user, err := vpn.Toggle(id)
		if err != nil {
			return respondError(c, err)
		}
		logActivity(c, "vpn.toggle", user.Username)
		return respondMessage(c, user, "VPN user toggled")
	}

	user, err := vpn.Update(id, req.UpdateUserInput)
	if err != nil {
		return respondError(c, err)
	}
	logActivity(c, "vpn.update", user.Username)
	return respondMessage(c, user, "VPN user updated")
}

// DeleteVPNUser removes a user record.
func DeleteVPNUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := vpn.Delete(id); err != nil {
		return respondError(c, err)
	}
	logActivity(c, "vpn.delete", id)
	return respondMessage(c, fiber.Map{"id": id}, "VPN user deleted")
}
