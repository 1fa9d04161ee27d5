package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/guardian"
	"github.com/novalearn/safegate/pkg/domain/moderation"
	"github.com/novalearn/safegate/pkg/infra/metrics"
)

// Delivery is the outbound alert collaborator. Failures are logged, never
// propagated back to the moderation caller.
//
//go:generate mockery --name=Delivery --dir=. --output=./mocks --filename=delivery_mock.go --case=underscore --with-expecter
type Delivery interface {
	Send(ctx context.Context, destination, title, message string) error
}

// Job is one guardian alert request, enqueued after the moderation record is
// durably written.
type Job struct {
	RecordID  uuid.UUID
	SubjectID string
	Title     string
	Message   string
}

// Dispatcher runs a fixed worker pool draining a buffered job queue. It is
// decoupled from the request path: enqueueing never blocks, and a full queue
// drops the job with a log line rather than delaying a verdict.
type Dispatcher struct {
	logger      *logrus.Logger
	guardians   guardian.Repository
	records     moderation.Repository
	delivery    Delivery
	jobs        chan Job
	workers     int
	maxAttempts int
	wg          sync.WaitGroup
}

func NewDispatcher(
	logger *logrus.Logger,
	guardians guardian.Repository,
	records moderation.Repository,
	delivery Delivery,
	workers int,
	queueSize int,
	maxAttempts int,
) *Dispatcher {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Dispatcher{
		logger:      logger,
		guardians:   guardians,
		records:     records,
		delivery:    delivery,
		jobs:        make(chan Job, queueSize),
		workers:     workers,
		maxAttempts: maxAttempts,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range d.jobs {
				d.process(ctx, job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to drain.
func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
}

// Enqueue submits a job without blocking. Returns false when the queue is
// full and the job was dropped.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.jobs <- job:
		return true
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.logger.WithField("record_id", job.RecordID).Warn("notification queue full, dropping alert")
		return false
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	guardians, err := d.guardians.ActiveBySubject(ctx, job.SubjectID)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.logger.WithError(err).WithField("subject_id", job.SubjectID).Error("failed to look up guardians")
		return
	}
	if len(guardians) == 0 {
		d.logger.WithField("subject_id", job.SubjectID).Debug("no active guardians for subject")
		return
	}

	delivered := false
	for _, g := range guardians {
		if d.send(ctx, g.Destination, job) {
			delivered = true
		}
	}
	if !delivered {
		return
	}

	if err := d.records.MarkNotified(ctx, job.RecordID); err != nil {
		d.logger.WithError(err).WithField("record_id", job.RecordID).Error("failed to mark record notified")
	}
}

func (d *Dispatcher) send(ctx context.Context, destination string, job Job) bool {
	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		err = d.delivery.Send(ctx, destination, job.Title, job.Message)
		if err == nil {
			metrics.NotificationsTotal.WithLabelValues("delivered").Inc()
			return true
		}
		if attempt < d.maxAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	metrics.NotificationsTotal.WithLabelValues("failed").Inc()
	d.logger.WithError(err).WithFields(logrus.Fields{
		"record_id": job.RecordID,
		"attempts":  d.maxAttempts,
	}).Error("failed to deliver guardian alert")
	return false
}
