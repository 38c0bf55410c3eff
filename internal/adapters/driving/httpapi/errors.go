package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// ErrMissingQuestionService is returned when the question service is not provided.
var ErrMissingQuestionService = errors.New("httpapi: question service is required")

// Error is the JSON body of every failed request.
type Error struct {
	Code    int               `json:"code"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an Error with the given status code.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrNoVideoID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrCaptionsDisabled):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmptyRetrieval), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrFetchFailed),
		errors.Is(err, domain.ErrGenerationFailed),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrNoProvider),
		errors.Is(err, domain.ErrDimensionMismatch):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders any handler error as an Error body.
// Internal errors hide their message from the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)

	var body Error
	if !errors.As(err, &body) {
		body = NewError(code, err.Error())
	}
	if code == fiber.StatusInternalServerError {
		body.Message = "internal server error"
	}

	logger.Warn("HTTP %s %s: %d %v", c.Method(), c.Path(), code, err)
	return c.Status(code).JSON(body)
}
