// Package rules is the only code that touches the firewall rule
// collection. Every list view in the panel follows the query contract
// established here: AND-composed filters, a clamped skip/take window and a
// stable sort so page boundaries never duplicate or drop rows.
package rules

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

// Filters are the request-scoped query parameters for rule listings.
// Zero values mean "no constraint".
type Filters struct {
	Page   int
	Limit  int
	Search string // substring match over name, source value, destination value
	Status string // "enabled" or "disabled"
	Action models.Action
}

// CreateRuleInput is the write shape for new rules. Enabled defaults to
// true and Priority to DefaultPriority when nil.
type CreateRuleInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Enabled     *bool           `json:"enabled"`
	Priority    *int            `json:"priority"`
	Source      models.Endpoint `json:"source"`
	Destination models.Endpoint `json:"destination"`
	Service     models.Service  `json:"service"`
	Action      models.Action   `json:"action"`
	Schedule    string          `json:"schedule"`
	CreatedBy   string          `json:"created_by"`
}

// UpdateRuleInput is a partial merge; nil fields keep the stored value.
// The merged record is validated as a whole before it is written.
type UpdateRuleInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Enabled     *bool            `json:"enabled"`
	Priority    *int             `json:"priority"`
	Source      *models.Endpoint `json:"source"`
	Destination *models.Endpoint `json:"destination"`
	Service     *models.Service  `json:"service"`
	Action      *models.Action   `json:"action"`
	Schedule    *string          `json:"schedule"`
}

// DeletedRule identifies a removed record in the delete response.
type DeletedRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BulkResult reports partial-success counts for bulk operations. Missing
// ids are skipped, never a batch failure, so Modified/Deleted can be less
// than Requested. The count fields always serialize, zero included.
type BulkResult struct {
	Modified  int64 `json:"modified_count"`
	Deleted   int64 `json:"deleted_count"`
	Requested int   `json:"requested_count"`
}

// Stats aggregates the rule collection for the dashboard cards.
type Stats struct {
	Total     int64                   `json:"total"`
	Enabled   int64                   `json:"enabled"`
	Disabled  int64                   `json:"disabled"`
	ByAction  map[models.Action]int64 `json:"by_action"`
	TotalHits int64                   `json:"total_hits"`
}

// ruleOrder keeps pagination deterministic: priority decides evaluation
// order, created_at breaks priority ties, and the UUIDv7 id is the final
// insertion-order surrogate for rows created in the same instant.
const ruleOrder = "priority asc, created_at asc, id asc"

func ruleQuery(f Filters) *gorm.DB {
	q := database.DB.Model(&models.FirewallRule{})
	if f.Search != "" {
		like := database.LikePattern(f.Search)
		q = q.Where("name LIKE ? ESCAPE '|' OR source_value LIKE ? ESCAPE '|' OR destination_value LIKE ? ESCAPE '|'", like, like, like)
	}
	switch f.Status {
	case "enabled":
		q = q.Where("enabled = ?", true)
	case "disabled":
		q = q.Where("enabled = ?", false)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	return q
}

// GetRules returns one page of rules matching the AND-composition of the
// filters plus the total match count. A page past the end yields an empty
// slice with the true total.
func GetRules(f Filters) ([]models.FirewallRule, int64, error) {
	if !database.Ready() {
		return nil, 0, database.ErrNotConnected
	}

	page, limit := models.ClampWindow(f.Page, f.Limit)

	var total int64
	if err := ruleQuery(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rules := []models.FirewallRule{}
	err := ruleQuery(f).
		Order(ruleOrder).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rules).Error
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// GetTotalRules counts rules under the same predicate GetRules uses.
func GetTotalRules(f Filters) (int64, error) {
	if !database.Ready() {
		return 0, database.ErrNotConnected
	}
	var total int64
	err := ruleQuery(f).Count(&total).Error
	return total, err
}

// GetRuleByID fetches a single rule.
func GetRuleByID(id string) (*models.FirewallRule, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}
	var rule models.FirewallRule
	err := database.DB.Where("id = ?", id).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// CreateRule validates the input, fills defaults and inserts the record.
func CreateRule(in CreateRuleInput) (*models.FirewallRule, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	rule := models.FirewallRule{
		Name:        in.Name,
		Description: in.Description,
		Enabled:     true,
		Priority:    DefaultPriority,
		Source:      in.Source,
		Destination: in.Destination,
		Service:     in.Service,
		Action:      in.Action,
		Schedule:    in.Schedule,
		CreatedBy:   in.CreatedBy,
	}
	if in.Enabled != nil {
		rule.Enabled = *in.Enabled
	}
	if in.Priority != nil {
		rule.Priority = *in.Priority
	}

	if err := validateRule(&rule); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	rule.ID = id.String()

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := database.DB.Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// UpdateRule merges the partial input onto the stored record, validates
// the merged result and writes it back.
func UpdateRule(id string, in UpdateRuleInput) (*models.FirewallRule, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	rule, err := GetRuleByID(id)
	if err != nil {
		return nil, err
	}

	mergeRule(rule, in)
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	rule.UpdatedAt = time.Now().UTC()
	if err := database.DB.Save(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func mergeRule(rule *models.FirewallRule, in UpdateRuleInput) {
	if in.Name != nil {
		rule.Name = *in.Name
	}
	if in.Description != nil {
		rule.Description = *in.Description
	}
	if in.Enabled != nil {
		rule.Enabled = *in.Enabled
	}
	if in.Priority != nil {
		rule.Priority = *in.Priority
	}
	if in.Source != nil {
		rule.Source = *in.Source
	}
	if in.Destination != nil {
		rule.Destination = *in.Destination
	}
	if in.Service != nil {
		rule.Service = *in.Service
	}
	if in.Action != nil {
		rule.Action = *in.Action
	}
	if in.Schedule != nil {
		rule.Schedule = *in.Schedule
	}
}

// DeleteRule hard-removes a rule. There is no tombstone.
func DeleteRule(id string) (*DeletedRule, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	rule, err := GetRuleByID(id)
	if err != nil {
		return nil, err
	}

	if err := database.DB.Delete(&models.FirewallRule{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &DeletedRule{ID: rule.ID, Name: rule.Name}, nil
}

// ToggleRule flips enabled in a single store-side statement so concurrent
// toggles never lose an update to a read-then-write race.
func ToggleRule(id string) (*models.FirewallRule, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	res := database.DB.Model(&models.FirewallRule{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"enabled":    gorm.Expr("NOT enabled"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return GetRuleByID(id)
}

// IncrementHitCount adds one to the hit counter with a store-side atomic
// increment; callers never read the current value.
func IncrementHitCount(id string) error {
	return bumpHits(id, gorm.Expr("hit_count + 1"))
}

// ResetHitCount sets the hit counter back to zero.
func ResetHitCount(id string) error {
	return bumpHits(id, 0)
}

func bumpHits(id string, value interface{}) error {
	if !database.Ready() {
		return database.ErrNotConnected
	}
	res := database.DB.Model(&models.FirewallRule{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"hit_count":  value,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// BulkUpdate applies the same merge-and-validate path as UpdateRule to
// each id. Ids not found are skipped; a validation failure on the merged
// result aborts the batch before anything is written.
func BulkUpdate(ids []string, in UpdateRuleInput) (BulkResult, error) {
	result := BulkResult{Requested: len(ids)}
	if !database.Ready() {
		return result, database.ErrNotConnected
	}

	for _, id := range ids {
		rule, err := GetRuleByID(id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return result, err
		}
		merged := *rule
		mergeRule(&merged, in)
		if err := validateRule(&merged); err != nil {
			return result, err
		}
	}

	for _, id := range ids {
		rule, err := GetRuleByID(id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return result, err
		}
		mergeRule(rule, in)
		rule.UpdatedAt = time.Now().UTC()
		if err := database.DB.Save(rule).Error; err != nil {
			return result, err
		}
		result.Modified++
	}
	return result, nil
}

// BulkDelete removes every listed id that exists and reports how many
// rows actually went away.
func BulkDelete(ids []string) (BulkResult, error) {
	result := BulkResult{Requested: len(ids)}
	if !database.Ready() {
		return result, database.ErrNotConnected
	}
	if len(ids) == 0 {
		return result, nil
	}

	res := database.DB.Delete(&models.FirewallRule{}, "id IN ?", ids)
	if res.Error != nil {
		return result, res.Error
	}
	result.Deleted = res.RowsAffected
	return result, nil
}

// GetRuleStats aggregates the collection for the dashboard stat cards.
func GetRuleStats() (*Stats, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	stats := &Stats{ByAction: map[models.Action]int64{}}
	model := database.DB.Model(&models.FirewallRule{})

	if err := model.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.FirewallRule{}).
		Where("enabled = ?", true).Count(&stats.Enabled).Error; err != nil {
		return nil, err
	}
	stats.Disabled = stats.Total - stats.Enabled

	type actionCount struct {
		Action models.Action
		Count  int64
	}
	var counts []actionCount
	if err := database.DB.Model(&models.FirewallRule{}).
		Select("action, count(*) as count").
		Group("action").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByAction[c.Action] = c.Count
	}

	var hits struct{ Total int64 }
	if err := database.DB.Model(&models.FirewallRule{}).
		Select("coalesce(sum(hit_count), 0) as total").
		Scan(&hits).Error; err != nil {
		return nil, err
	}
	stats.TotalHits = hits.Total

	return stats, nil
}
