package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"course-service/internal/service"
)

// ErrAccessDenied is the single external signal for every rejected
// credential, whatever the internal reason.
var ErrAccessDenied = errors.New("access denied")

// ValidationError carries one human readable message per violated rule.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ErrorHandler maps handler errors to status codes. Errors outside the known
// set are logged and reported as a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationErr *ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErr.Errors})
	case errors.Is(err, ErrAccessDenied):
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="course-service", charset="UTF-8"`)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access Denied"})
	case errors.Is(err, service.ErrNotCourseOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Only the course owner can change this course"})
	case errors.Is(err, service.ErrCourseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Course not found"})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	default:
		slog.ErrorContext(c.UserContext(), "Unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
}
