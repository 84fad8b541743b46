package handlers

import (
	"errors"

	"kirana/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a domain error onto an HTTP status and the standard
// error body. The wrapped message is the human-readable reason the
// services attach; the presentation decides how to display it.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrConstraint):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
