package rules

import (
	"ngfw-panel/internal/models"
)

// Template is a predefined rule preset the UI offers on the rules page.
// Applying one goes through the normal CreateRule path.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Priority    int             `json:"priority"`
	Source      models.Endpoint `json:"source"`
	Destination models.Endpoint `json:"destination"`
	Service     models.Service  `json:"service"`
	Action      models.Action   `json:"action"`
}

var ruleTemplates = []Template{
	{
		ID:          "allow-web",
		Name:        "Allow web traffic",
		Description: "Permit inbound HTTP/HTTPS to any destination",
		Priority:    100,
		Source:      models.Endpoint{Type: models.EndpointAny},
		Destination: models.Endpoint{Type: models.EndpointAny},
		Service:     models.Service{Protocol: models.ProtocolTCP, Ports: "80-443"},
		Action:      models.ActionAllow,
	},
	{
		ID:          "allow-dns",
		Name:        "Allow DNS",
		Description: "Permit outbound DNS lookups",
		Priority:    100,
		Source:      models.Endpoint{Type: models.EndpointAny},
		Destination: models.Endpoint{Type: models.EndpointAny},
		Service:     models.Service{Protocol: models.ProtocolUDP, Ports: "53"},
		Action:      models.ActionAllow,
	},
	{
		ID:          "block-icmp",
		Name:        "Block ICMP",
		Description: "Drop ping and other ICMP from outside",
		Priority:    50,
		Source:      models.Endpoint{Type: models.EndpointAny},
		Destination: models.Endpoint{Type: models.EndpointAny},
		Service:     models.Service{Protocol: models.ProtocolICMP},
		Action:      models.ActionDrop,
	},
	{
		ID:          "block-all-inbound",
		Name:        "Block all inbound",
		Description: "Default-deny catch-all, evaluated last",
		Priority:    MaxPriority,
		Source:      models.Endpoint{Type: models.EndpointAny},
		Destination: models.Endpoint{Type: models.EndpointAny},
		Service:     models.Service{Protocol: models.ProtocolAny},
		Action:      models.ActionDeny,
	},
}

// Templates lists the built-in rule presets.
func Templates() []Template {
	out := make([]Template, len(ruleTemplates))
	copy(out, ruleTemplates)
	return out
}

// ApplyTemplate creates a rule from a preset. Unknown template ids are
// reported as ErrNotFound.
func ApplyTemplate(id, actor string) (*models.FirewallRule, error) {
	for _, t := range ruleTemplates {
		if t.ID == id {
			priority := t.Priority
			return CreateRule(CreateRuleInput{
				Name:        t.Name,
				Description: t.Description,
				Priority:    &priority,
				Source:      t.Source,
				Destination: t.Destination,
				Service:     t.Service,
				Action:      t.Action,
				CreatedBy:   actor,
			})
		}
	}
	return nil, models.ErrNotFound
}
