package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/app/moderation"
)

type quickCheckRequest struct {
	Text string `json:"text"`
}

type quickCheckHandler struct {
	logger  *logrus.Logger
	service *moderation.Service
}

func NewQuickCheckHandler(logger *logrus.Logger, service *moderation.Service) Handler {
	return &quickCheckHandler{
		logger:  logger,
		service: service,
	}
}

func (h *quickCheckHandler) Handle(c *fiber.Ctx) error {
	var req quickCheckRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind quick-check request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.QuickCheck(c.Context(), req.Text)
	if err != nil {
		if errors.Is(err, moderation.ErrEmptyText) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("quick check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
