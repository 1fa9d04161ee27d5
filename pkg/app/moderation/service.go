package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/novalearn/safegate/pkg/app/notification"
	"github.com/novalearn/safegate/pkg/detectors/lexicon"
	"github.com/novalearn/safegate/pkg/detectors/pii"
	"github.com/novalearn/safegate/pkg/detectors/readability"
	domain "github.com/novalearn/safegate/pkg/domain/moderation"
	"github.com/novalearn/safegate/pkg/infra/metrics"
)

// ErrEmptyText rejects requests with no text to moderate; nothing is
// persisted for them.
var ErrEmptyText = errors.New("moderation text must not be empty")

const systemErrorNote = "system-error fallback"

//go:generate mockery --name=Classifier --dir=. --output=./mocks --filename=classifier_mock.go --case=underscore --with-expecter
type Classifier interface {
	Classify(ctx context.Context, text string) domain.Signal
}

// Notifier is the asynchronous guardian-alert queue. Enqueue must never
// block the request path.
type Notifier interface {
	Enqueue(job notification.Job) bool
}

// Request is the caller-supplied moderation input.
type Request struct {
	Text        string
	ContentType string
	ContentID   string
	UserID      string
	SubjectID   string
	Age         int
	IP          string
	Client      string
}

// Output is the synchronous verdict returned to the caller.
type Output struct {
	Approved          bool            `json:"approved"`
	ModeratedText     string          `json:"moderated_text"`
	Status            domain.Status   `json:"status"`
	Action            domain.Action   `json:"action"`
	Severity          domain.Severity `json:"severity"`
	Warnings          []string        `json:"warnings"`
	FlaggedWords      []string        `json:"flagged_words"`
	FlaggedCategories []string        `json:"flagged_categories"`
	NotifyParent      bool            `json:"notify_parent"`
	BlockReason       *string         `json:"block_reason"`
	RecordID          uuid.UUID       `json:"record_id"`
}

// Service orchestrates the detectors, fuses their signals into one verdict,
// writes the audit record and enqueues guardian alerts.
type Service struct {
	logger      *logrus.Logger
	lexicon     *lexicon.Scanner
	pii         *pii.Detector
	readability *readability.Evaluator
	classifier  Classifier
	records     domain.Repository
	notifier    Notifier
	policy      Policy
	cache       QuickCheckCache
}

func NewService(
	logger *logrus.Logger,
	lexiconScanner *lexicon.Scanner,
	piiDetector *pii.Detector,
	readabilityEvaluator *readability.Evaluator,
	classifier Classifier,
	records domain.Repository,
	notifier Notifier,
	policy Policy,
	cache QuickCheckCache,
) *Service {
	return &Service{
		logger:      logger,
		lexicon:     lexiconScanner,
		pii:         piiDetector,
		readability: readabilityEvaluator,
		classifier:  classifier,
		records:     records,
		notifier:    notifier,
		policy:      policy,
		cache:       cache,
	}
}

// Moderate runs the full pipeline. It always returns a verdict: dependency
// failures degrade one signal, while any internal fault is converted at this
// boundary into a fail-closed blocked verdict with an audit record. The only
// error returned is input validation.
func (s *Service) Moderate(ctx context.Context, req Request) (out *Output, err error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()
	defer func() {
		// Single fail-closed boundary for the whole orchestration; the
		// caller must never see a silent pass-through on internal failure.
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("moderation pipeline fault, failing closed")
			out = s.failClosed(ctx, req, fmt.Sprintf("%s: %v", systemErrorNote, r))
			err = nil
		}
		metrics.ModerationDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		lexSignal domain.Signal
		piiSignal domain.Signal
		ageSignal domain.Signal
		clsSignal domain.Signal
	)

	// The external classifier is the only slow call; it runs concurrently
	// with the local detectors and depends on nothing they produce.
	g := new(errgroup.Group)
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("panic", r).Error("classifier adapter fault, degrading signal")
				clsSignal = domain.NeutralSignal(domain.DetectorClassifier)
			}
		}()
		clsSignal = s.classifier.Classify(ctx, req.Text)
		return nil
	})
	g.Go(func() error {
		// Both text detectors see the original text: masking one detector's
		// match must never hide the other's (a flagged word inside an email
		// local part still leaves the email detectable, and vice versa).
		lexSignal = s.lexicon.Scan(req.Text)
		piiSignal = s.pii.Detect(req.Text)
		ageSignal = s.readability.Evaluate(req.Text, req.Age)
		return nil
	})
	_ = g.Wait()

	if clsSignal.Confidence != nil {
		metrics.ClassifierRequests.WithLabelValues("success").Inc()
	} else {
		metrics.ClassifierRequests.WithLabelValues("degraded").Inc()
	}

	severity := domain.MaxSeverity(lexSignal.Severity, piiSignal.Severity, ageSignal.Severity, clsSignal.Severity)
	action := s.policy.ActionFor(severity)
	if piiSignal.Triggered {
		// PII exposure is always masked, even when otherwise harmless.
		action = domain.MaxAction(action, domain.ActionFilter)
	}
	status := domain.StatusForAction(action)

	// Age-appropriateness alone never triggers a guardian alert.
	notify := piiSignal.Triggered || lexSignal.NotifyGuardian || clsSignal.NotifyGuardian

	final := s.transformedText(req.Text, lexSignal, piiSignal)
	var transformed *string
	if final != req.Text {
		transformed = &final
	}

	record := &domain.ModerationRecord{
		ID:              uuid.New(),
		ContentType:     req.ContentType,
		ContentID:       req.ContentID,
		UserID:          req.UserID,
		SubjectID:       optional(req.SubjectID),
		OriginalText:    req.Text,
		TransformedText: transformed,
		Status:          status,
		Severity:        severity,
		Action:          action,
		FlaggedWords:    lexSignal.Categories,
		FlaggedCats:     clsSignal.Categories,
		PIIDetected:     piiSignal.Triggered,
		PIICategories:   piiSignal.Categories,
		Confidence:      clsSignal.Confidence,
		GuardianNotify:  false,
		RequestIP:       req.IP,
		RequestClient:   req.Client,
		CreatedAt:       time.Now(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		s.logger.WithError(err).Error("ledger write failed, failing closed")
		return s.failClosed(ctx, req, systemErrorNote+": ledger write failed"), nil
	}

	if notify && req.SubjectID != "" {
		s.enqueueAlert(record.ID, req, severity)
	}

	metrics.ModerationTotal.WithLabelValues(req.ContentType, string(severity), string(action), string(status)).Inc()

	return &Output{
		Approved:          action.Rank() <= domain.ActionWarn.Rank(),
		ModeratedText:     final,
		Status:            status,
		Action:            action,
		Severity:          severity,
		Warnings:          collectWarnings(lexSignal, piiSignal, ageSignal, clsSignal),
		FlaggedWords:      lexSignal.Categories,
		FlaggedCategories: clsSignal.Categories,
		NotifyParent:      notify,
		BlockReason:       blockReason(action, lexSignal, clsSignal),
		RecordID:          record.ID,
	}, nil
}

// failClosed persists the strictest possible record and returns a blocked
// verdict. A second failure while writing the fallback record is logged; the
// caller still receives the blocked verdict.
func (s *Service) failClosed(ctx context.Context, req Request, note string) *Output {
	record := &domain.ModerationRecord{
		ID:            uuid.New(),
		ContentType:   req.ContentType,
		ContentID:     req.ContentID,
		UserID:        req.UserID,
		SubjectID:     optional(req.SubjectID),
		OriginalText:  req.Text,
		Status:        domain.StatusFlagged,
		Severity:      domain.SeverityCritical,
		Action:        domain.ActionBlock,
		Note:          note,
		RequestIP:     req.IP,
		RequestClient: req.Client,
		CreatedAt:     time.Now(),
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.logger.WithError(err).Error("failed to persist fail-closed record")
	}

	if req.SubjectID != "" {
		s.enqueueAlert(record.ID, req, domain.SeverityCritical)
	}

	metrics.ModerationTotal.WithLabelValues(
		req.ContentType,
		string(domain.SeverityCritical),
		string(domain.ActionBlock),
		string(domain.StatusFlagged),
	).Inc()

	reason := "content blocked pending manual review"
	return &Output{
		Approved:      false,
		ModeratedText: "",
		Status:        domain.StatusFlagged,
		Severity:      domain.SeverityCritical,
		Action:        domain.ActionBlock,
		Warnings:      []string{"a system error occurred, content was blocked for review"},
		NotifyParent:  true,
		BlockReason:   &reason,
		RecordID:      record.ID,
	}
}

func (s *Service) enqueueAlert(recordID uuid.UUID, req Request, severity domain.Severity) {
	s.notifier.Enqueue(notification.Job{
		RecordID:  recordID,
		SubjectID: req.SubjectID,
		Title:     "Content safety alert",
		Message: fmt.Sprintf("A %s message involving your child's account was held by the safety filter (%s).",
			severity, req.ContentType),
	})
}

// transformedText composes the PII placeholders, the lexicon mask and the
// autocorrect normalization, in that order. PII placeholders are applied to
// the original text first: they consume whole structural spans, so a flagged
// word overlapping one disappears with it, while lexicon-masking first would
// corrupt the span before the PII patterns could see it.
func (s *Service) transformedText(original string, lexSignal, piiSignal domain.Signal) string {
	if !lexSignal.Triggered && !piiSignal.Triggered {
		// Nothing was masked: keep the original untouched rather than
		// applying cosmetic normalization to clean text.
		return original
	}
	text := original
	if piiSignal.Transformed != "" {
		text = piiSignal.Transformed
	}
	if lexSignal.Triggered {
		// Re-scan the placeholder text: terms that survived outside the PII
		// spans still get masked.
		if rescan := s.lexicon.Scan(text); rescan.Transformed != "" {
			text = rescan.Transformed
		}
	}
	return s.lexicon.AutoCorrect(text)
}

func collectWarnings(signals ...domain.Signal) []string {
	var warnings []string
	for _, sig := range signals {
		if !sig.Triggered {
			continue
		}
		switch sig.Detector {
		case domain.DetectorLexicon:
			warnings = append(warnings, "inappropriate language was masked")
		case domain.DetectorPII:
			warnings = append(warnings, "personal information was removed")
		case domain.DetectorReadability:
			warnings = append(warnings, sig.Reason)
		case domain.DetectorClassifier:
			warnings = append(warnings, fmt.Sprintf("content flagged by classifier: %s", strings.Join(sig.Categories, ", ")))
		}
	}
	return warnings
}

func blockReason(action domain.Action, lexSignal, clsSignal domain.Signal) *string {
	if action != domain.ActionBlock {
		return nil
	}
	reason := "content violates the platform safety policy"
	if len(clsSignal.Categories) > 0 {
		reason = fmt.Sprintf("content blocked for: %s", strings.Join(clsSignal.Categories, ", "))
	} else if len(lexSignal.Categories) > 0 {
		reason = "content blocked for prohibited language"
	}
	return &reason
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
