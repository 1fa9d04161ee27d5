package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) moderation.Repository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) Create(ctx context.Context, record *moderation.ModerationRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create moderation record: %w", err)
	}
	return nil
}

// MarkNotified only flips the flag when it is still false, preserving the
// update-once contract on the notification fields.
func (r *ModerationRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&moderation.ModerationRecord{}).
		Where("id = ? AND guardian_notify = ?", id, false).
		Updates(map[string]interface{}{
			"guardian_notify": true,
			"notified_at":     now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark record notified: %w", result.Error)
	}
	return nil
}

func (r *ModerationRepository) StatsByUser(ctx context.Context, userID string) (*moderation.UserStats, error) {
	type row struct {
		Status moderation.Status
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&moderation.ModerationRecord{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate moderation stats: %w", err)
	}

	stats := &moderation.UserStats{}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case moderation.StatusApproved:
			stats.Approved = r.Count
		case moderation.StatusFlagged:
			stats.Flagged = r.Count
		case moderation.StatusRejected:
			stats.Rejected = r.Count
		case moderation.StatusPending:
			stats.Pending = r.Count
		}
	}
	return stats, nil
}
