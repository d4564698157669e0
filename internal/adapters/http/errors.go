package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, validation_failed, no_draft, ...
	Message   string `json:"message"` // safe to show in the form
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// domainErrors maps use-case sentinels onto responses. Message overrides the
// error text when set.
var domainErrors = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{domain.ErrNoDraft, fiber.StatusConflict, "no_draft", ""},
	{domain.ErrPermissionDenied, fiber.StatusForbidden, "permission_denied", domain.MessageUnavailable},
}

// domainError writes the response for an error returned by a use case.
// Unmapped errors become fallback (500 or 503) and are logged under op.
func domainError(c *fiber.Ctx, op string, fallback int, err error) error {
	if domain.IsValidation(err) {
		return newError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return newError(c, m.status, m.code, msg)
		}
	}

	logger := LoggerFromCtx(c.UserContext())
	if fallback == fiber.StatusServiceUnavailable {
		logger.Warn(op, "error", err)
		return newError(c, fallback, "unavailable", err.Error())
	}
	logger.Error(op, "error", err)
	return errInternal(c, err.Error())
}
