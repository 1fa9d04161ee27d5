package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/novalearn/safegate/pkg/domain/moderation"
	domainmocks "github.com/novalearn/safegate/pkg/domain/moderation/mocks"
	handlers "github.com/novalearn/safegate/pkg/handlers/http"
)

func newStatsApp(records *domainmocks.MockModerationRepository) *fiber.App {
	app := fiber.New()
	app.Get("/users/:user_id/stats", handlers.NewUserStatsHandler(logrus.New(), records).Handle)
	return app
}

func TestUserStatsHandler_ReturnsStats(t *testing.T) {
	records := new(domainmocks.MockModerationRepository)
	records.On("StatsByUser", mock.Anything, "user-1").Return(&moderation.UserStats{
		Total:    10,
		Approved: 7,
		Flagged:  2,
		Rejected: 1,
	}, nil)

	app := newStatsApp(records)
	req := httptest.NewRequest(http.MethodGet, "/users/user-1/stats", nil)
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats moderation.UserStats
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(7), stats.Approved)
}

func TestUserStatsHandler_RepositoryError(t *testing.T) {
	records := new(domainmocks.MockModerationRepository)
	records.On("StatsByUser", mock.Anything, "user-1").Return(nil, errors.New("database down"))

	app := newStatsApp(records)
	req := httptest.NewRequest(http.MethodGet, "/users/user-1/stats", nil)
	resp, err := app.Test(req, -1)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
