package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/autoposter/internal/service"
)

type NotificationHandler struct {
	notifiers map[string]service.Notifier
}

func NewNotificationHandler(notifiers map[string]service.Notifier) *NotificationHandler {
	return &NotificationHandler{notifiers: notifiers}
}

func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	n, ok := h.notifiers[c.Params("channel")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown channel",
		})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	if err := n.Notify(c.Context(), req.Message); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Message sent",
	})
}
