package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngfw-panel/internal/config"
	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/rules"
)

type envelope struct {
	Success          bool            `json:"success"`
	Error            string          `json:"error"`
	Message          string          `json:"message"`
	RequiresDatabase bool            `json:"requires_database"`
	Data             json.RawMessage `json:"data"`
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	api := app.Group("/api")
	api.Get("/firewall/rules/stats", GetFirewallRuleStats)
	api.Get("/firewall/rules", GetFirewallRules)
	api.Post("/firewall/rules", CreateFirewallRule)
	api.Put("/firewall/rules", BulkUpdateFirewallRules)
	api.Delete("/firewall/rules", BulkDeleteFirewallRules)
	api.Get("/firewall/rules/:id", GetFirewallRule)
	api.Put("/firewall/rules/:id", UpdateFirewallRule)
	api.Patch("/firewall/rules/:id", PatchFirewallRule)
	api.Delete("/firewall/rules/:id", DeleteFirewallRule)
	api.Get("/firewall/templates", GetRuleTemplates)
	api.Post("/firewall/templates/:id", ApplyRuleTemplate)
	api.Get("/activity", GetActivity)
	return app
}

func setupHandlerDB(t *testing.T) {
	t.Helper()
	_, err := database.Connect(config.DatabaseConfig{
		Mode:  "local",
		Local: config.LocalStore{Path: ":memory:"},
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.FirewallRule{}, &models.ActivityLog{}))
	t.Cleanup(func() { database.DB = nil })
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "tester")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func createRuleBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"source":      map[string]string{"type": "any"},
		"destination": map[string]string{"type": "any"},
		"service":     map[string]string{"protocol": "tcp", "ports": "80"},
		"action":      "deny",
	}
}

func TestListRulesDemoMode(t *testing.T) {
	database.DB = nil
	app := testApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/firewall/rules", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.False(t, env.Success)
	assert.True(t, env.RequiresDatabase, "demo mode must be distinguishable from bad input")
}

func TestCreateAndListRules(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules", createRuleBody("block rdp"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var rule models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &rule))
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, "tester", rule.CreatedBy, "actor header fills created_by")

	resp, env = doJSON(t, app, http.MethodGet, "/api/firewall/rules", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var page struct {
		Rules      []models.FirewallRule `json:"rules"`
		Pagination models.Pagination     `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Rules, 1)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.EqualValues(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Pages)
}

func TestListRulesClampsLimit(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	_, env := doJSON(t, app, http.MethodGet, "/api/firewall/rules?page=0&limit=10000", nil)
	require.True(t, env.Success)

	var page struct {
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Pagination.Page, "page clamped to 1")
	assert.Equal(t, models.MaxPageLimit, page.Pagination.Limit, "limit clamped, not rejected")
}

func TestCreateRuleValidationStatus(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	body := createRuleBody("")
	resp, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "name")

	body = createRuleBody("x")
	body["action"] = "invalid"
	resp, env = doJSON(t, app, http.MethodPost, "/api/firewall/rules", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestGetRuleNotFound(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/firewall/rules/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestPatchRuleActions(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	_, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules", createRuleBody("patch me"))
	var rule models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &rule))

	resp, env := doJSON(t, app, http.MethodPatch, "/api/firewall/rules/"+rule.ID,
		map[string]string{"action": "toggle"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.Enabled)

	_, env = doJSON(t, app, http.MethodPatch, "/api/firewall/rules/"+rule.ID,
		map[string]string{"action": "hit"})
	require.True(t, env.Success)
	_, env = doJSON(t, app, http.MethodGet, "/api/firewall/rules/"+rule.ID, nil)
	var hit models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &hit))
	assert.EqualValues(t, 1, hit.HitCount)

	_, env = doJSON(t, app, http.MethodPatch, "/api/firewall/rules/"+rule.ID,
		map[string]string{"action": "resetHits"})
	require.True(t, env.Success)
	_, env = doJSON(t, app, http.MethodGet, "/api/firewall/rules/"+rule.ID, nil)
	var reset models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &reset))
	assert.EqualValues(t, 0, reset.HitCount)

	resp, env = doJSON(t, app, http.MethodPatch, "/api/firewall/rules/"+rule.ID,
		map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestBulkEndpointsPartialSuccess(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	_, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules", createRuleBody("bulk-1"))
	var rule models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &rule))

	resp, env := doJSON(t, app, http.MethodPut, "/api/firewall/rules", map[string]interface{}{
		"ids":    []string{rule.ID, "missing-id"},
		"update": map[string]interface{}{"enabled": false},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bulk rules.BulkResult
	require.NoError(t, json.Unmarshal(env.Data, &bulk))
	assert.EqualValues(t, 1, bulk.Modified)
	assert.Equal(t, 2, bulk.Requested)

	resp, env = doJSON(t, app, http.MethodDelete, "/api/firewall/rules", map[string]interface{}{
		"ids": []string{rule.ID, "missing-id"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &bulk))
	assert.EqualValues(t, 1, bulk.Deleted)
	assert.Equal(t, 2, bulk.Requested)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/firewall/rules", map[string]interface{}{
		"ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBulkUpdateAllMissingReportsZero(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	resp, env := doJSON(t, app, http.MethodPut, "/api/firewall/rules", map[string]interface{}{
		"ids":    []string{"ghost-1", "ghost-2"},
		"update": map[string]interface{}{"enabled": false},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	// The zero count has to be visible next to requested_count, not
	// dropped from the payload.
	assert.Contains(t, string(env.Data), `"modified_count":0`)

	var bulk rules.BulkResult
	require.NoError(t, json.Unmarshal(env.Data, &bulk))
	assert.EqualValues(t, 0, bulk.Modified)
	assert.Equal(t, 2, bulk.Requested)
}

func TestPaginationAcrossPagesViaAPI(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	for i := 0; i < 12; i++ {
		_, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules",
			createRuleBody(fmt.Sprintf("rule-%02d", i)))
		require.True(t, env.Success)
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		_, env := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/firewall/rules?page=%d&limit=5", page), nil)
		require.True(t, env.Success)
		var data struct {
			Rules      []models.FirewallRule `json:"rules"`
			Pagination models.Pagination     `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 3, data.Pagination.Pages)
		for _, r := range data.Rules {
			assert.False(t, seen[r.ID])
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestTemplatesEndpoint(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/firewall/templates", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
	var data struct {
		Templates []rules.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Templates)

	resp, env = doJSON(t, app, http.MethodPost, "/api/firewall/templates/allow-dns", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rule models.FirewallRule
	require.NoError(t, json.Unmarshal(env.Data, &rule))
	assert.Equal(t, "Allow DNS", rule.Name)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/firewall/templates/bogus", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivityLogged(t *testing.T) {
	setupHandlerDB(t)
	app := testApp(t)

	_, env := doJSON(t, app, http.MethodPost, "/api/firewall/rules", createRuleBody("audited"))
	require.True(t, env.Success)

	_, env = doJSON(t, app, http.MethodGet, "/api/activity", nil)
	require.True(t, env.Success)
	var data struct {
		Entries []models.ActivityLog `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Entries)
	assert.Equal(t, "rule.create", data.Entries[0].Action)
	assert.Equal(t, "tester", data.Entries[0].Actor)
}
