package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/app/moderation"
)

type MockQuickCheckCache struct {
	mock.Mock
}

func (m *MockQuickCheckCache) Get(ctx context.Context, key string) (*moderation.QuickCheckResult, bool) {
	args := m.Called(ctx, key)
	result, ok := args.Get(0).(*moderation.QuickCheckResult)
	if !ok && args.Get(0) != nil {
		panic(fmt.Sprintf("expected *moderation.QuickCheckResult, got %T", args.Get(0)))
	}
	return result, args.Bool(1)
}

func (m *MockQuickCheckCache) Set(ctx context.Context, key string, result *moderation.QuickCheckResult) {
	m.Called(ctx, key, result)
}
