package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockDelivery struct {
	mock.Mock
}

func (m *MockDelivery) Send(ctx context.Context, destination, title, message string) error {
	args := m.Called(ctx, destination, title, message)
	return args.Error(0)
}
