package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/moderation"
	"github.com/novalearn/safegate/pkg/infra/httpx"
)

const DefaultTimeout = 3 * time.Second

// Breakpoints map the highest per-category confidence to a severity tier.
// Policy values, loaded from configuration.
type Breakpoints struct {
	Critical float64 `mapstructure:"critical"`
	Severe   float64 `mapstructure:"severe"`
	Moderate float64 `mapstructure:"moderate"`
	Mild     float64 `mapstructure:"mild"`
}

func DefaultBreakpoints() Breakpoints {
	return Breakpoints{Critical: 0.9, Severe: 0.7, Moderate: 0.5, Mild: 0.3}
}

type Config struct {
	URL         string        `mapstructure:"url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Breakpoints Breakpoints   `mapstructure:"breakpoints"`
}

// knownCategories is the fixed vocabulary the pipeline understands. Unknown
// categories returned by the provider are logged and ignored so a provider
// rollout cannot silently break fusion.
var knownCategories = map[string]struct{}{
	"toxicity":   {},
	"hate":       {},
	"harassment": {},
	"violence":   {},
	"sexual":     {},
	"self_harm":  {},
	"grooming":   {},
	"bullying":   {},
	"profanity":  {},
}

type classifyRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type classifyResponse struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// Adapter calls the external content-classification capability and normalizes
// its response into the pipeline's vocabulary. It fails open for this signal
// alone: on timeout, transport error or open breaker it returns a neutral
// signal and the local detectors still decide.
type Adapter struct {
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	config  Config
}

func NewAdapter(logger *logrus.Logger, client httpx.Client, breaker httpx.CircuitBreaker, config Config) *Adapter {
	if client == nil {
		client = &http.Client{}
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Breakpoints == (Breakpoints{}) {
		config.Breakpoints = DefaultBreakpoints()
	}
	return &Adapter{
		client:  client,
		breaker: breaker,
		logger:  logger,
		config:  config,
	}
}

// Classify returns the external signal, or the neutral signal when the
// dependency is unavailable.
func (a *Adapter) Classify(ctx context.Context, text string) moderation.Signal {
	var result classifyResponse

	call := func() error {
		resp, err := a.call(ctx, text)
		if err != nil {
			return err
		}
		result = *resp
		return nil
	}

	var err error
	if a.breaker != nil {
		err = a.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		a.logger.WithError(err).Warn("external classifier unavailable, degrading signal")
		return moderation.NeutralSignal(moderation.DetectorClassifier)
	}

	return a.normalize(result)
}

func (a *Adapter) call(ctx context.Context, text string) (*classifyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	payload, err := json.Marshal(classifyRequest{Input: text, Model: a.config.Model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classification response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(body))
	}

	var out classifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification response: %w", err)
	}
	return &out, nil
}

// normalize computes severity from the single highest confidence score and
// collects every category whose provider-side flag is true.
func (a *Adapter) normalize(resp classifyResponse) moderation.Signal {
	signal := moderation.NeutralSignal(moderation.DetectorClassifier)

	highest := 0.0
	for category, score := range resp.CategoryScores {
		if _, ok := knownCategories[category]; !ok {
			a.logger.WithField("category", category).Warn("ignoring unknown classifier category")
			continue
		}
		if score > highest {
			highest = score
		}
	}

	var flagged []string
	for category, on := range resp.Categories {
		if !on {
			continue
		}
		if _, ok := knownCategories[category]; !ok {
			continue
		}
		flagged = append(flagged, category)
	}

	signal.Confidence = &highest
	signal.Categories = flagged
	signal.Severity = a.severityFor(highest)
	signal.Triggered = resp.Flagged || signal.Severity != moderation.SeverityNone
	// Severe and critical tiers carry the provider's notify recommendation.
	signal.NotifyGuardian = signal.Severity.AtLeast(moderation.SeveritySevere)
	return signal
}

func (a *Adapter) severityFor(confidence float64) moderation.Severity {
	bp := a.config.Breakpoints
	switch {
	case confidence >= bp.Critical:
		return moderation.SeverityCritical
	case confidence >= bp.Severe:
		return moderation.SeveritySevere
	case confidence >= bp.Moderate:
		return moderation.SeverityModerate
	case confidence >= bp.Mild:
		return moderation.SeverityMild
	default:
		return moderation.SeverityNone
	}
}
