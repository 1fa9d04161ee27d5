package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

func TestMaxSeverity(t *testing.T) {
	assert.Equal(t, moderation.SeverityNone, moderation.MaxSeverity())
	assert.Equal(t, moderation.SeverityNone, moderation.MaxSeverity(moderation.SeverityNone))
	assert.Equal(t, moderation.SeveritySevere, moderation.MaxSeverity(
		moderation.SeverityMild,
		moderation.SeveritySevere,
		moderation.SeverityModerate,
	))
	// One critical signal dominates, regardless of how many lower ones exist.
	assert.Equal(t, moderation.SeverityCritical, moderation.MaxSeverity(
		moderation.SeverityNone,
		moderation.SeverityNone,
		moderation.SeverityCritical,
		moderation.SeverityMild,
	))
}

func TestSeverityOrdering(t *testing.T) {
	order := []moderation.Severity{
		moderation.SeverityNone,
		moderation.SeverityMild,
		moderation.SeverityModerate,
		moderation.SeveritySevere,
		moderation.SeverityCritical,
	}
	for i := 1; i < len(order); i++ {
		assert.True(t, order[i].AtLeast(order[i-1]))
		assert.False(t, order[i-1].AtLeast(order[i]))
	}
}

func TestMaxAction(t *testing.T) {
	assert.Equal(t, moderation.ActionFilter, moderation.MaxAction(moderation.ActionWarn, moderation.ActionFilter))
	assert.Equal(t, moderation.ActionFilter, moderation.MaxAction(moderation.ActionFilter, moderation.ActionWarn))
	assert.Equal(t, moderation.ActionBlock, moderation.MaxAction(moderation.ActionBlock, moderation.ActionBlock))
}

func TestStatusForAction(t *testing.T) {
	assert.Equal(t, moderation.StatusApproved, moderation.StatusForAction(moderation.ActionAllow))
	assert.Equal(t, moderation.StatusApproved, moderation.StatusForAction(moderation.ActionWarn))
	assert.Equal(t, moderation.StatusFlagged, moderation.StatusForAction(moderation.ActionFlag))
	assert.Equal(t, moderation.StatusFlagged, moderation.StatusForAction(moderation.ActionFilter))
	assert.Equal(t, moderation.StatusRejected, moderation.StatusForAction(moderation.ActionBlock))
	assert.Equal(t, moderation.StatusPending, moderation.StatusForAction(moderation.Action("unknown")))
}
