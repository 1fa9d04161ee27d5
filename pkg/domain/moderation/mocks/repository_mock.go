package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) Create(ctx context.Context, record *moderation.ModerationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockModerationRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModerationRepository) StatsByUser(ctx context.Context, userID string) (*moderation.UserStats, error) {
	args := m.Called(ctx, userID)
	stats, ok := args.Get(0).(*moderation.UserStats)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *moderation.UserStats, got %T", args.Get(0))
	}
	return stats, args.Error(1)
}
