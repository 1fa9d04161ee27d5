package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/app/notification"
	notifymocks "github.com/novalearn/safegate/pkg/app/notification/mocks"
	"github.com/novalearn/safegate/pkg/domain/guardian"
	guardianmocks "github.com/novalearn/safegate/pkg/domain/guardian/mocks"
	domainmocks "github.com/novalearn/safegate/pkg/domain/moderation/mocks"
)

func activeGuardian(subjectID string) guardian.Guardian {
	return guardian.Guardian{
		ID:          uuid.New(),
		SubjectID:   subjectID,
		Name:        "Parent",
		Destination: "parent@example.com",
		Active:      true,
	}
}

func TestDispatcher_DeliversAndMarksNotified(t *testing.T) {
	guardians := new(guardianmocks.MockGuardianRepository)
	records := new(domainmocks.MockModerationRepository)
	delivery := new(notifymocks.MockDelivery)

	job := notification.Job{
		RecordID:  uuid.New(),
		SubjectID: "child-1",
		Title:     "Content safety alert",
		Message:   "a message was held",
	}

	guardians.On("ActiveBySubject", mock.Anything, "child-1").
		Return([]guardian.Guardian{activeGuardian("child-1")}, nil)
	delivery.On("Send", mock.Anything, "parent@example.com", job.Title, job.Message).Return(nil)
	records.On("MarkNotified", mock.Anything, job.RecordID).Return(nil)

	dispatcher := notification.NewDispatcher(logrus.New(), guardians, records, delivery, 1, 4, 1)
	dispatcher.Start(context.Background())

	assert.True(t, dispatcher.Enqueue(job))
	dispatcher.Stop()

	delivery.AssertExpectations(t)
	records.AssertExpectations(t)
}

func TestDispatcher_RetriesThenGivesUp(t *testing.T) {
	guardians := new(guardianmocks.MockGuardianRepository)
	records := new(domainmocks.MockModerationRepository)
	delivery := new(notifymocks.MockDelivery)

	job := notification.Job{RecordID: uuid.New(), SubjectID: "child-1", Title: "t", Message: "m"}

	guardians.On("ActiveBySubject", mock.Anything, "child-1").
		Return([]guardian.Guardian{activeGuardian("child-1")}, nil)
	delivery.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("webhook unreachable"))

	dispatcher := notification.NewDispatcher(logrus.New(), guardians, records, delivery, 1, 4, 2)
	dispatcher.Start(context.Background())

	start := time.Now()
	assert.True(t, dispatcher.Enqueue(job))
	dispatcher.Stop()

	delivery.AssertNumberOfCalls(t, "Send", 2)
	records.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything)
	// One backoff between the two attempts and none after the last: well
	// under the 300ms a trailing sleep would add.
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestDispatcher_NoActiveGuardians(t *testing.T) {
	guardians := new(guardianmocks.MockGuardianRepository)
	records := new(domainmocks.MockModerationRepository)
	delivery := new(notifymocks.MockDelivery)

	guardians.On("ActiveBySubject", mock.Anything, "child-1").Return([]guardian.Guardian{}, nil)

	dispatcher := notification.NewDispatcher(logrus.New(), guardians, records, delivery, 1, 4, 1)
	dispatcher.Start(context.Background())

	assert.True(t, dispatcher.Enqueue(notification.Job{RecordID: uuid.New(), SubjectID: "child-1"}))
	dispatcher.Stop()

	delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything)
}

func TestDispatcher_LookupFailure(t *testing.T) {
	guardians := new(guardianmocks.MockGuardianRepository)
	records := new(domainmocks.MockModerationRepository)
	delivery := new(notifymocks.MockDelivery)

	guardians.On("ActiveBySubject", mock.Anything, "child-1").
		Return(nil, errors.New("database unavailable"))

	dispatcher := notification.NewDispatcher(logrus.New(), guardians, records, delivery, 1, 4, 1)
	dispatcher.Start(context.Background())

	assert.True(t, dispatcher.Enqueue(notification.Job{RecordID: uuid.New(), SubjectID: "child-1"}))
	dispatcher.Stop()

	delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_FullQueueDropsJob(t *testing.T) {
	guardians := new(guardianmocks.MockGuardianRepository)
	records := new(domainmocks.MockModerationRepository)
	delivery := new(notifymocks.MockDelivery)

	// Not started: jobs stay in the queue, so the second enqueue overflows.
	dispatcher := notification.NewDispatcher(logrus.New(), guardians, records, delivery, 1, 1, 1)

	assert.True(t, dispatcher.Enqueue(notification.Job{RecordID: uuid.New(), SubjectID: "child-1"}))
	assert.False(t, dispatcher.Enqueue(notification.Job{RecordID: uuid.New(), SubjectID: "child-1"}))
}
