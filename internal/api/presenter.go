package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return writeJSON(c, status, ErrorResponse{Message: message})
}

// errorHandler renders fiber's own errors (404 routes, body limits, panics
// caught by recover) in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}
	return writeError(c, status, message)
}
