package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/app/notification"
	"github.com/novalearn/safegate/pkg/infra/httpx"
)

type alertPayload struct {
	Destination string `json:"destination"`
	Title       string `json:"title"`
	Message     string `json:"message"`
}

// WebhookDelivery posts guardian alerts to the platform's notification
// service.
type WebhookDelivery struct {
	client httpx.Client
	logger *logrus.Logger
	url    string
}

func NewWebhookDelivery(logger *logrus.Logger, client httpx.Client, url string) notification.Delivery {
	if client == nil {
		client = &http.Client{}
	}
	return &WebhookDelivery{
		client: client,
		logger: logger,
		url:    url,
	}
}

func (w *WebhookDelivery) Send(ctx context.Context, destination, title, message string) error {
	payload, err := json.Marshal(alertPayload{
		Destination: destination,
		Title:       title,
		Message:     message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}
	return nil
}
