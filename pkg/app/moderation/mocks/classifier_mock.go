package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) moderation.Signal {
	args := m.Called(ctx, text)
	signal, ok := args.Get(0).(moderation.Signal)
	if !ok {
		return moderation.NeutralSignal(moderation.DetectorClassifier)
	}
	return signal
}
