package rules

import (
	"strconv"
	"strings"

	"ngfw-panel/internal/models"
)

// Priority bounds. Lower values are evaluated first; ties fall back to
// insertion order, which is documented policy but not enforced anywhere.
const (
	MinPriority     = 0
	MaxPriority     = 65535
	DefaultPriority = 100
)

func validateRule(rule *models.FirewallRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return models.NewValidationError("name", "must not be empty")
	}
	if !rule.Action.Valid() {
		return models.NewValidationError("action", "must be allow, deny or drop")
	}
	if rule.Priority < MinPriority || rule.Priority > MaxPriority {
		return models.NewValidationError("priority", "out of range")
	}
	if err := validateEndpoint("source", rule.Source); err != nil {
		return err
	}
	if err := validateEndpoint("destination", rule.Destination); err != nil {
		return err
	}
	return validateService(rule.Service)
}

func validateEndpoint(field string, ep models.Endpoint) error {
	if !ep.Type.Valid() {
		return models.NewValidationError(field, "unknown endpoint type")
	}
	if ep.Type != models.EndpointAny && strings.TrimSpace(ep.Value) == "" {
		return models.NewValidationError(field, "value required for type "+string(ep.Type))
	}
	return nil
}

func validateService(svc models.Service) error {
	if !svc.Protocol.Valid() {
		return models.NewValidationError("service", "unknown protocol")
	}
	if svc.Ports == "" {
		return nil
	}
	if svc.Protocol == models.ProtocolICMP {
		return models.NewValidationError("service", "icmp does not take ports")
	}

	// "80" or "1000-2000"
	parts := strings.SplitN(svc.Ports, "-", 2)
	lo, err := parsePort(parts[0])
	if err != nil {
		return models.NewValidationError("service", "invalid port specification")
	}
	if len(parts) == 2 {
		hi, err := parsePort(parts[1])
		if err != nil || hi < lo {
			return models.NewValidationError("service", "invalid port range")
		}
	}
	return nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if p < 1 || p > 65535 {
		return 0, strconv.ErrRange
	}
	return p, nil
}
