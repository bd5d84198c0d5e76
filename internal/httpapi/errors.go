package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error types rendered in the "error" field of JSON error bodies.
const (
	TypeValidation = "validation"
	TypeNotFound   = "not_found"
	TypeInternal   = "internal"
)

// Error is a handler failure that knows its HTTP status.
type Error struct {
	Type    string
	Message string
	Status  int
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func validationError(message string, cause error) *Error {
	return &Error{Type: TypeValidation, Message: message, Status: http.StatusBadRequest, Cause: cause}
}

func notFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message, Status: http.StatusNotFound}
}

func internalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Status: http.StatusInternalServerError, Cause: cause}
}

// errorMiddleware renders *Error values as JSON and lets echo handle its own HTTP errors.
func errorMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					return err
				}
				apiErr = internalError("internal server error", err)
			}

			attrs := []any{
				"error_type", apiErr.Type,
				"message", apiErr.Message,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", apiErr.Status,
			}
			if apiErr.Cause != nil {
				attrs = append(attrs, "cause", apiErr.Cause)
			}
			if apiErr.Status >= http.StatusInternalServerError {
				logger.Error("Request failed", attrs...)
			} else {
				logger.Info("Request rejected", attrs...)
			}

			if err := c.JSON(apiErr.Status, errorResponse{Error: apiErr.Type, Message: apiErr.Message}); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}
