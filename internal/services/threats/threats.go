// Package threats backs the threat events page, mirroring the rules
// repository query contract.
package threats

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

type Filters struct {
	Page     int
	Limit    int
	Search   string // substring over source ip, destination ip, description
	Severity models.Severity
	Category string
}

type RecordInput struct {
	Severity      models.Severity `json:"severity"`
	Category      string          `json:"category"`
	SourceIP      string          `json:"source_ip"`
	DestinationIP string          `json:"destination_ip"`
	ActionTaken   string          `json:"action_taken"`
	RuleID        string          `json:"rule_id"`
	Description   string          `json:"description"`
}

// Summary feeds the threat stat cards.
type Summary struct {
	Total      int64                     `json:"total"`
	Blocked    int64                     `json:"blocked"`
	BySeverity map[models.Severity]int64 `json:"by_severity"`
	Last24h    int64                     `json:"last_24h"`
}

func query(f Filters) *gorm.DB {
	q := database.DB.Model(&models.ThreatEvent{})
	if f.Search != "" {
		like := database.LikePattern(f.Search)
		q = q.Where("source_ip LIKE ? ESCAPE '|' OR destination_ip LIKE ? ESCAPE '|' OR description LIKE ? ESCAPE '|'", like, like, like)
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// List returns one page of events, newest first, id as tie-break.
func List(f Filters) ([]models.ThreatEvent, int64, error) {
	if !database.Ready() {
		return nil, 0, database.ErrNotConnected
	}

	page, limit := models.ClampWindow(f.Page, f.Limit)

	var total int64
	if err := query(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	events := []models.ThreatEvent{}
	err := query(f).
		Order("detected_at desc, id desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Record inserts a threat event. When the event names a matched rule the
// rule's hit counter is bumped through the rules repository contract.
func Record(in RecordInput) (*models.ThreatEvent, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}
	if !in.Severity.Valid() {
		return nil, models.NewValidationError("severity", "unknown severity")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	event := models.ThreatEvent{
		ID:            id.String(),
		Severity:      in.Severity,
		Category:      in.Category,
		SourceIP:      in.SourceIP,
		DestinationIP: in.DestinationIP,
		ActionTaken:   in.ActionTaken,
		RuleID:        in.RuleID,
		Description:   in.Description,
		DetectedAt:    now,
		CreatedAt:     now,
	}
	if event.ActionTaken == "" {
		event.ActionTaken = "blocked"
	}
	if err := database.DB.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetSummary aggregates the event table.
func GetSummary() (*Summary, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	s := &Summary{BySeverity: map[models.Severity]int64{}}
	if err := database.DB.Model(&models.ThreatEvent{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.ThreatEvent{}).
		Where("action_taken = ?", "blocked").Count(&s.Blocked).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.ThreatEvent{}).
		Where("detected_at > ?", time.Now().UTC().Add(-24*time.Hour)).
		Count(&s.Last24h).Error; err != nil {
		return nil, err
	}

	type sevCount struct {
		Severity models.Severity
		Count    int64
	}
	var counts []sevCount
	if err := database.DB.Model(&models.ThreatEvent{}).
		Select("severity, count(*) as count").
		Group("severity").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		s.BySeverity[c.Severity] = c.Count
	}

	return s, nil
}

// Prune removes events detected before the cutoff.
func Prune(cutoff time.Time) (int64, error) {
	if !database.Ready() {
		return 0, database.ErrNotConnected
	}
	res := database.DB.Delete(&models.ThreatEvent{}, "detected_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
