package handlers

import (
	"errors"

	"portal/internal/apperrors"
	"portal/internal/logger"

	"github.com/gofiber/fiber/v2"
)

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeValidationFailed:   fiber.StatusBadRequest,
	apperrors.CodeInvalidStatus:      fiber.StatusBadRequest,
	apperrors.CodeNotFound:           fiber.StatusNotFound,
	apperrors.CodeInvalidCredentials: fiber.StatusUnauthorized,
	apperrors.CodeUnauthorized:       fiber.StatusUnauthorized,
	apperrors.CodeConflict:           fiber.StatusConflict,
}

// respondError writes err as a JSON body. Internal causes are logged and
// replaced with fallback so storage details never reach the client.
func respondError(c *fiber.Ctx, log logger.Logger, err error, fallback string) error {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code == apperrors.CodeInternal {
		log.Er(fallback, err, "method", c.Method(), "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": fallback})
	}

	status, known := statusByCode[appErr.Code]
	if !known {
		status = fiber.StatusInternalServerError
	}

	switch appErr.Code {
	case apperrors.CodeValidationFailed:
		return c.Status(status).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  appErr.Fields,
		})
	default:
		return c.Status(status).JSON(fiber.Map{"message": appErr.Message})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

// ErrorHandler renders errors that escape a route, unknown paths and
// recovered panics included, in the same JSON shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	logger.New("handlers").Function("ErrorHandler").Er("unhandled error", err, "method", c.Method(), "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Something went wrong!"})
}
