package moderation

import (
	domain "github.com/novalearn/safegate/pkg/domain/moderation"
)

// Policy maps fused severity to the enforcement action. The mapping is
// monotonic and loaded from configuration; the defaults below are the
// shipped tuning, not load-bearing constants.
type Policy struct {
	actionMap map[domain.Severity]domain.Action
}

func DefaultPolicy() Policy {
	return Policy{actionMap: map[domain.Severity]domain.Action{
		domain.SeverityNone:     domain.ActionAllow,
		domain.SeverityMild:     domain.ActionWarn,
		domain.SeverityModerate: domain.ActionFlag,
		domain.SeveritySevere:   domain.ActionFilter,
		domain.SeverityCritical: domain.ActionBlock,
	}}
}

// NewPolicy overlays configured overrides on the default map. Unknown keys
// are ignored.
func NewPolicy(overrides map[domain.Severity]domain.Action) Policy {
	p := DefaultPolicy()
	for severity, action := range overrides {
		if _, ok := p.actionMap[severity]; ok {
			p.actionMap[severity] = action
		}
	}
	return p
}

// PolicyFromConfig builds the policy from the configured severity-to-action
// names, overlaying them on the defaults. Entries with an unknown severity or
// action name are ignored.
func PolicyFromConfig(actionMap map[string]string) Policy {
	overrides := make(map[domain.Severity]domain.Action, len(actionMap))
	for severityName, actionName := range actionMap {
		severity, ok := domain.ParseSeverity(severityName)
		if !ok {
			continue
		}
		action, ok := domain.ParseAction(actionName)
		if !ok {
			continue
		}
		overrides[severity] = action
	}
	return NewPolicy(overrides)
}

func (p Policy) ActionFor(severity domain.Severity) domain.Action {
	if action, ok := p.actionMap[severity]; ok {
		return action
	}
	return domain.ActionBlock
}
