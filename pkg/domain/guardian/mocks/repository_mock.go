package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/domain/guardian"
)

type MockGuardianRepository struct {
	mock.Mock
}

func (m *MockGuardianRepository) ActiveBySubject(ctx context.Context, subjectID string) ([]guardian.Guardian, error) {
	args := m.Called(ctx, subjectID)
	guardians, ok := args.Get(0).([]guardian.Guardian)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []guardian.Guardian, got %T", args.Get(0))
	}
	return guardians, args.Error(1)
}
