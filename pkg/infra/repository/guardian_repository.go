package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/novalearn/safegate/pkg/domain/guardian"
)

type GuardianRepository struct {
	db *gorm.DB
}

func NewGuardianRepository(db *gorm.DB) guardian.Repository {
	return &GuardianRepository{db: db}
}

func (r *GuardianRepository) ActiveBySubject(ctx context.Context, subjectID string) ([]guardian.Guardian, error) {
	var guardians []guardian.Guardian
	if err := r.db.WithContext(ctx).
		Where("subject_id = ? AND active = ?", subjectID, true).
		Find(&guardians).Error; err != nil {
		return nil, fmt.Errorf("failed to load guardians for subject: %w", err)
	}
	return guardians, nil
}
