package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

type userStatsHandler struct {
	logger  *logrus.Logger
	records moderation.Repository
}

func NewUserStatsHandler(logger *logrus.Logger, records moderation.Repository) Handler {
	return &userStatsHandler{
		logger:  logger,
		records: records,
	}
}

func (h *userStatsHandler) Handle(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	stats, err := h.records.StatsByUser(c.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("failed to load moderation stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
