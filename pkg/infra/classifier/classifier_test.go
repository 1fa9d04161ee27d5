package classifier_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/domain/moderation"
	"github.com/novalearn/safegate/pkg/infra/classifier"
	"github.com/novalearn/safegate/pkg/infra/httpx"
	httpxmocks "github.com/novalearn/safegate/pkg/infra/httpx/mocks"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func newAdapter(client httpx.Client) *classifier.Adapter {
	return classifier.NewAdapter(logrus.New(), client, nil, classifier.Config{
		URL:     "http://classifier.local/v1/classify",
		APIKey:  "test-key",
		Model:   "moderation-latest",
		Timeout: time.Second,
	})
}

func TestClassify_SevereSignal(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK,
		`{"flagged":true,"categories":{"bullying":true},"category_scores":{"bullying":0.75}}`), nil)

	signal := newAdapter(client).Classify(context.Background(), "mean message")

	assert.True(t, signal.Triggered)
	assert.Equal(t, moderation.SeveritySevere, signal.Severity)
	assert.Equal(t, []string{"bullying"}, signal.Categories)
	assert.NotNil(t, signal.Confidence)
	assert.InDelta(t, 0.75, *signal.Confidence, 0.0001)
	assert.True(t, signal.NotifyGuardian)
}

func TestClassify_SeverityBreakpoints(t *testing.T) {
	cases := []struct {
		score    string
		expected moderation.Severity
		notify   bool
	}{
		{"0.95", moderation.SeverityCritical, true},
		{"0.75", moderation.SeveritySevere, true},
		{"0.55", moderation.SeverityModerate, false},
		{"0.35", moderation.SeverityMild, false},
		{"0.1", moderation.SeverityNone, false},
	}

	for _, tc := range cases {
		client := new(httpxmocks.MockHTTPClient)
		client.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK,
			`{"flagged":false,"categories":{},"category_scores":{"toxicity":`+tc.score+`}}`), nil)

		signal := newAdapter(client).Classify(context.Background(), "text")

		assert.Equal(t, tc.expected, signal.Severity, "score %s", tc.score)
		assert.Equal(t, tc.notify, signal.NotifyGuardian, "score %s", tc.score)
	}
}

func TestClassify_UnknownCategoriesIgnored(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK,
		`{"flagged":true,"categories":{"bullying":true,"spam":true},"category_scores":{"spam":0.99,"bullying":0.4}}`), nil)

	signal := newAdapter(client).Classify(context.Background(), "text")

	// The unknown category's score must not drive severity.
	assert.Equal(t, moderation.SeverityMild, signal.Severity)
	assert.Equal(t, []string{"bullying"}, signal.Categories)
}

func TestClassify_TransportErrorDegrades(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

	signal := newAdapter(client).Classify(context.Background(), "text")

	assert.False(t, signal.Triggered)
	assert.Equal(t, moderation.SeverityNone, signal.Severity)
	assert.Nil(t, signal.Confidence)
	assert.False(t, signal.NotifyGuardian)
}

func TestClassify_Non200Degrades(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(jsonResponse(http.StatusBadGateway, `upstream error`), nil)

	signal := newAdapter(client).Classify(context.Background(), "text")

	assert.False(t, signal.Triggered)
	assert.Nil(t, signal.Confidence)
}

func TestClassify_OpenBreakerDegrades(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

	breaker := httpx.NewCircuitBreaker("classifier-test", time.Minute, 1)
	adapter := classifier.NewAdapter(logrus.New(), client, breaker, classifier.Config{
		URL:     "http://classifier.local/v1/classify",
		Timeout: time.Second,
	})

	// First call fails and trips the breaker; the second is rejected without
	// reaching the client.
	adapter.Classify(context.Background(), "text")
	signal := adapter.Classify(context.Background(), "text")

	assert.False(t, signal.Triggered)
	assert.Nil(t, signal.Confidence)
	client.AssertNumberOfCalls(t, "Do", 1)
}

func TestClassify_SendsAuthHeaders(t *testing.T) {
	client := new(httpxmocks.MockHTTPClient)
	client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == "Bearer test-key" &&
			req.Header.Get("Content-Type") == "application/json"
	})).Return(jsonResponse(http.StatusOK,
		`{"flagged":false,"categories":{},"category_scores":{}}`), nil)

	signal := newAdapter(client).Classify(context.Background(), "hello")

	client.AssertExpectations(t)
	assert.False(t, signal.Triggered)
	assert.NotNil(t, signal.Confidence)
}
