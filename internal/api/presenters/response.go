package presenters

import (
	"errors"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/logging"
	"Foodgram-Backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		res.Errors = []*domain.ValidationError{vErr}
	case utils.ValidationErrors(err) != nil:
		res.Errors = utils.ValidationErrors(err)
	}

	if statusCode >= fiber.StatusInternalServerError {
		logging.Ctx(c.Context()).Error().Err(err).Str("path", c.Path()).Msg(message)
		res.Error = "internal server error"
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps an error from the service layer onto an HTTP status.
func StatusFor(err error) int {
	var vErr *domain.ValidationError
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &vErr), utils.ValidationErrors(err) != nil:
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail renders err with the status StatusFor picks.
func Fail(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFor(err), message, err)
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// TextAttachment sends body as a downloadable plain-text file.
func TextAttachment(c *fiber.Ctx, filename, body string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Status(fiber.StatusOK).SendString(body)
}
