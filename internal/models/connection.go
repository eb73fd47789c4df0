package models

import (
	"time"
)

// NetworkConnection is a tracked flow shown on the connections page. The
// panel has no capture path; rows come from the demo feed or an external
// collector posting through the API.
type NetworkConnection struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	Protocol        Protocol  `json:"protocol" gorm:"size:10;index"`
	SourceIP        string    `json:"source_ip" gorm:"size:45"`
	SourcePort      int       `json:"source_port"`
	DestinationIP   string    `json:"destination_ip" gorm:"size:45"`
	DestinationPort int       `json:"destination_port"`
	State           string    `json:"state" gorm:"size:20;index"` // established, closing, closed
	Application     string    `json:"application" gorm:"size:100"`
	BytesSent       int64     `json:"bytes_sent"`
	BytesReceived   int64     `json:"bytes_received"`
	StartedAt       time.Time `json:"started_at"`
	CreatedAt       time.Time `json:"created_at"`
}
