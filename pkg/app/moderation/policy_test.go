package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appmoderation "github.com/novalearn/safegate/pkg/app/moderation"
	domain "github.com/novalearn/safegate/pkg/domain/moderation"
)

func TestDefaultPolicy(t *testing.T) {
	policy := appmoderation.DefaultPolicy()

	assert.Equal(t, domain.ActionAllow, policy.ActionFor(domain.SeverityNone))
	assert.Equal(t, domain.ActionWarn, policy.ActionFor(domain.SeverityMild))
	assert.Equal(t, domain.ActionFlag, policy.ActionFor(domain.SeverityModerate))
	assert.Equal(t, domain.ActionFilter, policy.ActionFor(domain.SeveritySevere))
	assert.Equal(t, domain.ActionBlock, policy.ActionFor(domain.SeverityCritical))
}

func TestPolicyOverrides(t *testing.T) {
	policy := appmoderation.NewPolicy(map[domain.Severity]domain.Action{
		domain.SeverityModerate: domain.ActionFilter,
		"made-up":               domain.ActionAllow,
	})

	assert.Equal(t, domain.ActionFilter, policy.ActionFor(domain.SeverityModerate))
	// Untouched tiers keep the defaults; unknown keys are ignored.
	assert.Equal(t, domain.ActionWarn, policy.ActionFor(domain.SeverityMild))
}

func TestPolicyFromConfig(t *testing.T) {
	policy := appmoderation.PolicyFromConfig(map[string]string{
		"moderate": "filter",
		"bogus":    "block",
		"severe":   "nonsense",
	})

	assert.Equal(t, domain.ActionFilter, policy.ActionFor(domain.SeverityModerate))
	// Entries with an unknown severity or action name are dropped; those
	// tiers keep the defaults.
	assert.Equal(t, domain.ActionFilter, policy.ActionFor(domain.SeveritySevere))
	assert.Equal(t, domain.ActionWarn, policy.ActionFor(domain.SeverityMild))
}

func TestPolicyFromConfig_EmptyKeepsDefaults(t *testing.T) {
	policy := appmoderation.PolicyFromConfig(nil)

	assert.Equal(t, domain.ActionFlag, policy.ActionFor(domain.SeverityModerate))
	assert.Equal(t, domain.ActionBlock, policy.ActionFor(domain.SeverityCritical))
}

func TestPolicy_UnknownSeverityBlocks(t *testing.T) {
	policy := appmoderation.DefaultPolicy()

	assert.Equal(t, domain.ActionBlock, policy.ActionFor(domain.Severity("weird")))
}
