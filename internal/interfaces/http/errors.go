package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// writeError traduce errores de dominio a status HTTP y cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log := ctxLogger(c)
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "UNAVAILABLE"
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden, "PERMISSION_DENIED"
	case errors.Is(err, domain.ErrUnknown):
		return fiber.StatusInternalServerError, "UNKNOWN"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
