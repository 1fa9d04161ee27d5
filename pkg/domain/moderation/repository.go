package moderation

import (
	"context"

	"github.com/google/uuid"
)

// UserStats aggregates decision counts for one acting user.
type UserStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Flagged  int64 `json:"flagged"`
	Rejected int64 `json:"rejected"`
	Pending  int64 `json:"pending"`
}

type Repository interface {
	Create(ctx context.Context, record *ModerationRecord) error
	// MarkNotified flips the guardian-notified fields from false to true. It
	// is the only permitted update on a record.
	MarkNotified(ctx context.Context, id uuid.UUID) error
	StatsByUser(ctx context.Context, userID string) (*UserStats, error)
}
