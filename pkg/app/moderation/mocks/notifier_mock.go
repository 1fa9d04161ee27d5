package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/app/notification"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enqueue(job notification.Job) bool {
	args := m.Called(job)
	return args.Bool(0)
}
