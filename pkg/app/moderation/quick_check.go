package moderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/novalearn/safegate/pkg/infra/metrics"
)

// QuickCheckResult is the latency-sensitive inline validation answer. No
// audit record is written for quick checks.
type QuickCheckResult struct {
	Safe         bool     `json:"safe"`
	FilteredText string   `json:"filtered_text"`
	Warnings     []string `json:"warnings"`
}

// QuickCheckCache stores recent quick-check results keyed by text hash;
// as-you-type traffic repeats heavily. A cache outage falls through to
// computing inline.
//
//go:generate mockery --name=QuickCheckCache --dir=. --output=./mocks --filename=quickcheck_cache_mock.go --case=underscore --with-expecter
type QuickCheckCache interface {
	Get(ctx context.Context, key string) (*QuickCheckResult, bool)
	Set(ctx context.Context, key string, result *QuickCheckResult)
}

// QuickCheck runs only the local transforms (PII placeholders, lexicon mask,
// autocorrect) with no persistence and no external call. Masking is a fixed
// point: re-running on an already-filtered text returns safe with no further
// changes.
func (s *Service) QuickCheck(ctx context.Context, text string) (*QuickCheckResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	key := quickCheckKey(text)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.QuickCheckCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.QuickCheckCacheTotal.WithLabelValues("miss").Inc()
	}

	lexSignal := s.lexicon.Scan(text)
	piiSignal := s.pii.Detect(text)

	result := &QuickCheckResult{
		Safe:         !lexSignal.Triggered && !piiSignal.Triggered,
		FilteredText: s.transformedText(text, lexSignal, piiSignal),
		Warnings:     collectWarnings(lexSignal, piiSignal),
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, result)
	}
	return result, nil
}

func quickCheckKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "safegate:quickcheck:" + hex.EncodeToString(sum[:])
}
