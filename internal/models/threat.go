package models

import (
	"time"
)

// Severity classifies a threat event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ThreatEvent is a detection record shown on the threats page. RuleID links
// back to the firewall rule that matched, when one did.
type ThreatEvent struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Severity      Severity  `json:"severity" gorm:"size:10;index"`
	Category      string    `json:"category" gorm:"size:50;index"` // malware, intrusion, scan, dos
	SourceIP      string    `json:"source_ip" gorm:"size:45"`
	DestinationIP string    `json:"destination_ip" gorm:"size:45"`
	ActionTaken   string    `json:"action_taken" gorm:"size:20"` // blocked, alerted
	RuleID        string    `json:"rule_id,omitempty" gorm:"size:36;index"`
	Description   string    `json:"description" gorm:"type:text"`
	DetectedAt    time.Time `json:"detected_at" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
}
