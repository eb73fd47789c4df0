package models

import (
	"time"
)

// Action is what the firewall does with matching traffic.
type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
	ActionDrop  Action = "drop"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionDrop:
		return true
	}
	return false
}

// EndpointType tags how an Endpoint value is interpreted.
type EndpointType string

const (
	EndpointAny    EndpointType = "any"
	EndpointIP     EndpointType = "ip"
	EndpointSubnet EndpointType = "subnet"
	EndpointGroup  EndpointType = "group"
)

func (t EndpointType) Valid() bool {
	switch t {
	case EndpointAny, EndpointIP, EndpointSubnet, EndpointGroup:
		return true
	}
	return false
}

// Protocol is the service protocol a rule matches.
type Protocol string

const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolICMP Protocol = "icmp"
	ProtocolAny  Protocol = "any"
)

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolTCP, ProtocolUDP, ProtocolICMP, ProtocolAny:
		return true
	}
	return false
}

// Endpoint is a rule source or destination. Value is required for every
// type except "any".
type Endpoint struct {
	Type  EndpointType `json:"type" gorm:"size:10"`
	Value string       `json:"value,omitempty" gorm:"size:255"`
}

// Service is the protocol/port side of a rule. Ports is a single port
// ("80") or a range ("1000-2000"); empty means all ports.
type Service struct {
	Protocol Protocol `json:"protocol" gorm:"size:10"`
	Ports    string   `json:"ports,omitempty" gorm:"size:50"`
}

// FirewallRule is a policy record managed by the panel. The panel does not
// enforce rules, it only stores and reports them. Rules are hard-deleted;
// ids are UUIDv7 and never reused, so id order follows insertion order.
type FirewallRule struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Enabled     bool      `json:"enabled" gorm:"default:true"`
	Priority    int       `json:"priority" gorm:"index"`
	Source      Endpoint  `json:"source" gorm:"embedded;embeddedPrefix:source_"`
	Destination Endpoint  `json:"destination" gorm:"embedded;embeddedPrefix:destination_"`
	Service     Service   `json:"service" gorm:"embedded;embeddedPrefix:service_"`
	Action      Action    `json:"action" gorm:"size:10;not null"`
	Schedule    string    `json:"schedule,omitempty" gorm:"size:100"`
	HitCount    int64     `json:"hit_count"`
	CreatedBy   string    `json:"created_by" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
