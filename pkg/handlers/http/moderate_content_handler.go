package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/app/moderation"
)

type moderateContentRequest struct {
	Text        string `json:"text"`
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	UserID      string `json:"user_id"`
	SubjectID   string `json:"subject_id"`
	Age         int    `json:"age"`
}

type moderateContentHandler struct {
	logger  *logrus.Logger
	service *moderation.Service
}

func NewModerateContentHandler(logger *logrus.Logger, service *moderation.Service) Handler {
	return &moderateContentHandler{
		logger:  logger,
		service: service,
	}
}

func (h *moderateContentHandler) Handle(c *fiber.Ctx) error {
	var req moderateContentRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind moderation request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	output, err := h.service.Moderate(c.Context(), moderation.Request{
		Text:        req.Text,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		UserID:      req.UserID,
		SubjectID:   req.SubjectID,
		Age:         req.Age,
		IP:          c.IP(),
		Client:      c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		if errors.Is(err, moderation.ErrEmptyText) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("moderation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(output)
}
