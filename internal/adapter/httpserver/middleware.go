package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/platform/correlation"
	apperrors "github.com/pscheid92/mcmotd/internal/platform/errors"
)

// correlationMiddleware reuses the request ID as correlation ID so log lines and the
// X-Request-Id response header match.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id == "" {
			id = correlation.NewID()
		}
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}
	if err.Cause != nil {
		attrs = append(attrs, "cause", err.Cause)
	}

	ctx := c.Request().Context()
	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeNotFound, apperrors.TypeUnauthorized:
		slog.InfoContext(ctx, "Client error", attrs...)
	case apperrors.TypeExternal, apperrors.TypeUnavailable:
		slog.WarnContext(ctx, "Dependency error", attrs...)
	case apperrors.TypeInternal:
		slog.ErrorContext(ctx, "Internal error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}

// WrapHTTPError converts an echo error into the structured form.
func WrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := "internal server error"
	if msg, ok := httpErr.Message.(string); ok {
		message = msg
	}

	var errType apperrors.ErrorType
	switch httpErr.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		errType = apperrors.TypeValidation
	case http.StatusUnauthorized:
		errType = apperrors.TypeUnauthorized
	case http.StatusNotFound:
		errType = apperrors.TypeNotFound
	case http.StatusBadGateway:
		errType = apperrors.TypeExternal
	case http.StatusServiceUnavailable:
		errType = apperrors.TypeUnavailable
	default:
		errType = apperrors.TypeInternal
	}

	err := &apperrors.Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]any),
	}
	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}
	return err
}
