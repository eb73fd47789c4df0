// Package client is the typed facade UI code uses to talk to the panel
// API. Every call returns the normalized envelope as a Result value;
// network failures are folded into it, so callers have exactly one
// failure-handling path and never parse raw transport errors.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/rules"
)

// Result is the normalized outcome of an API call.
type Result struct {
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`
	Message          string `json:"message,omitempty"`
	RequiresDatabase bool   `json:"requires_database,omitempty"`
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

type Client struct {
	baseURL string
	actor   string
	http    *http.Client
}

// New builds a client against the panel base URL, e.g.
// "http://127.0.0.1:8989".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithActor sets the X-Actor header sent on mutating calls.
func (c *Client) WithActor(actor string) *Client {
	c.actor = actor
	return c
}

type envelope struct {
	Success          bool            `json:"success"`
	Error            string          `json:"error"`
	Message          string          `json:"message"`
	RequiresDatabase bool            `json:"requires_database"`
	Data             json.RawMessage `json:"data"`
}

// do runs one request and decodes the envelope. out may be nil when the
// caller only wants the Result.
func (c *Client) do(method, path string, query url.Values, body, out interface{}) Result {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return failure(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return failure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.actor != "" {
		req.Header.Set("X-Actor", c.actor)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return failure(fmt.Errorf("decode response: %w", err))
	}

	result := Result{
		Success:          env.Success,
		Error:            env.Error,
		Message:          env.Message,
		RequiresDatabase: env.RequiresDatabase,
	}
	if env.Success && out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return failure(fmt.Errorf("decode data: %w", err))
		}
	}
	return result
}

// ListRulesOptions mirrors the list query parameters; zero values are
// omitted.
type ListRulesOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
	Action models.Action
}

// RulesPage is the list response payload.
type RulesPage struct {
	Rules      []models.FirewallRule `json:"rules"`
	Pagination models.Pagination     `json:"pagination"`
}

func (o ListRulesOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Action != "" {
		q.Set("action", string(o.Action))
	}
	return q
}

func (c *Client) ListRules(opts ListRulesOptions) (*RulesPage, Result) {
	var page RulesPage
	res := c.do(http.MethodGet, "/api/firewall/rules", opts.query(), nil, &page)
	if !res.Success {
		return nil, res
	}
	return &page, res
}

func (c *Client) GetRule(id string) (*models.FirewallRule, Result) {
	var rule models.FirewallRule
	res := c.do(http.MethodGet, "/api/firewall/rules/"+id, nil, nil, &rule)
	if !res.Success {
		return nil, res
	}
	return &rule, res
}

func (c *Client) CreateRule(in rules.CreateRuleInput) (*models.FirewallRule, Result) {
	var rule models.FirewallRule
	res := c.do(http.MethodPost, "/api/firewall/rules", nil, in, &rule)
	if !res.Success {
		return nil, res
	}
	return &rule, res
}

func (c *Client) UpdateRule(id string, in rules.UpdateRuleInput) (*models.FirewallRule, Result) {
	var rule models.FirewallRule
	res := c.do(http.MethodPut, "/api/firewall/rules/"+id, nil, in, &rule)
	if !res.Success {
		return nil, res
	}
	return &rule, res
}

func (c *Client) DeleteRule(id string) (*rules.DeletedRule, Result) {
	var deleted rules.DeletedRule
	res := c.do(http.MethodDelete, "/api/firewall/rules/"+id, nil, nil, &deleted)
	if !res.Success {
		return nil, res
	}
	return &deleted, res
}

func (c *Client) patchRule(id, action string) (*models.FirewallRule, Result) {
	var rule models.FirewallRule
	body := map[string]string{"action": action}
	res := c.do(http.MethodPatch, "/api/firewall/rules/"+id, nil, body, &rule)
	if !res.Success {
		return nil, res
	}
	return &rule, res
}

func (c *Client) ToggleRule(id string) (*models.FirewallRule, Result) {
	return c.patchRule(id, "toggle")
}

func (c *Client) RecordHit(id string) Result {
	_, res := c.patchRule(id, "hit")
	return res
}

func (c *Client) ResetHits(id string) Result {
	_, res := c.patchRule(id, "resetHits")
	return res
}

func (c *Client) BulkUpdateRules(ids []string, in rules.UpdateRuleInput) (rules.BulkResult, Result) {
	body := map[string]interface{}{"ids": ids, "update": in}
	var result rules.BulkResult
	res := c.do(http.MethodPut, "/api/firewall/rules", nil, body, &result)
	return result, res
}

func (c *Client) BulkDeleteRules(ids []string) (rules.BulkResult, Result) {
	body := map[string]interface{}{"ids": ids}
	var result rules.BulkResult
	res := c.do(http.MethodDelete, "/api/firewall/rules", nil, body, &result)
	return result, res
}

func (c *Client) RuleStats() (*rules.Stats, Result) {
	var stats rules.Stats
	res := c.do(http.MethodGet, "/api/firewall/rules/stats", nil, nil, &stats)
	if !res.Success {
		return nil, res
	}
	return &stats, res
}

// Convenience presets. Pure parameter presets over the generic calls, no
// logic of their own.

func (c *Client) GetEnabledRules(page, limit int) (*RulesPage, Result) {
	return c.ListRules(ListRulesOptions{Page: page, Limit: limit, Status: "enabled"})
}

func (c *Client) SearchRules(search string, page, limit int) (*RulesPage, Result) {
	return c.ListRules(ListRulesOptions{Page: page, Limit: limit, Search: search})
}

func (c *Client) BulkEnableRules(ids []string) (rules.BulkResult, Result) {
	enabled := true
	return c.BulkUpdateRules(ids, rules.UpdateRuleInput{Enabled: &enabled})
}

func (c *Client) BulkDisableRules(ids []string) (rules.BulkResult, Result) {
	enabled := false
	return c.BulkUpdateRules(ids, rules.UpdateRuleInput{Enabled: &enabled})
}
