package http

import (
	"errors"
	"time"

	"github.com/blogora/moderation/pkg/handlers/http/request"
	"github.com/blogora/moderation/pkg/metrics"
	"github.com/blogora/moderation/pkg/moderation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Error messages are part of the public contract consumed by the blog
// frontend; do not reword them.
const (
	errContentRequired = "Contenido requerido"
	errInternal        = "Error interno del servidor"
)

type moderatePostHandler struct {
	logger  *logrus.Logger
	service moderation.Service
}

func NewModeratePostHandler(logger *logrus.Logger, service moderation.Service) Handler {
	return &moderatePostHandler{
		logger:  logger,
		service: service,
	}
}

func (h *moderatePostHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req request.ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind moderation request")
		observe(start, "400")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errContentRequired})
	}

	result, err := h.service.Moderate(c.Context(), moderation.Request{
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		if errors.Is(err, moderation.ErrContentRequired) {
			observe(start, "400")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errContentRequired})
		}
		h.logger.WithError(err).Error("moderation pipeline failed")
		observe(start, "500")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": errInternal})
	}

	observe(start, "200")
	return c.Status(fiber.StatusOK).JSON(result)
}

func observe(start time.Time, status string) {
	metrics.RequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
