package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/platform/correlation"
	apperrors "github.com/pscheid92/mcmotd/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareWithStructuredError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return apperrors.ValidationError("invalid input")
	})

	err := handler(c)
	require.NoError(t, err) // ErrorHandlingMiddleware handles the error, doesn't return it

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error)
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
}

func TestMiddlewareWithStandardError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return errors.New("standard error")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, apperrors.TypeInternal, resp.Type)
}

func TestMiddlewareWithNoError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())
}

func TestMiddlewarePassesEchoErrorsThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return echo.ErrStatusRequestEntityTooLarge
	})

	err := handler(c)

	var httpErr *echo.HTTPError
	ok := errors.As(err, &httpErr)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, httpErr.Code)
}

func TestMiddlewareWithContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return apperrors.ValidationError("bad address").
			WithField("server", "mc.example.org").
			WithField("reason", "empty host")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad address", resp.Error)
	assert.Len(t, resp.Context, 2)
	assert.Equal(t, "mc.example.org", resp.Context["server"])
	assert.Equal(t, "empty host", resp.Context["reason"])
}

func TestMiddlewareAllErrorTypes(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperrors.Error
		wantStatus int
		wantType   apperrors.ErrorType
	}{
		{
			name:       "validation",
			err:        apperrors.ValidationError("invalid"),
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeValidation,
		},
		{
			name:       "unauthorized",
			err:        apperrors.UnauthorizedError("denied"),
			wantStatus: http.StatusUnauthorized,
			wantType:   apperrors.TypeUnauthorized,
		},
		{
			name:       "not_found",
			err:        apperrors.NotFoundError("missing"),
			wantStatus: http.StatusNotFound,
			wantType:   apperrors.TypeNotFound,
		},
		{
			name:       "internal",
			err:        apperrors.InternalError("failed", errors.New("cause")),
			wantStatus: http.StatusInternalServerError,
			wantType:   apperrors.TypeInternal,
		},
		{
			name:       "external",
			err:        apperrors.ExternalError("api failed", errors.New("timeout")),
			wantStatus: http.StatusBadGateway,
			wantType:   apperrors.TypeExternal,
		},
		{
			name:       "unavailable",
			err:        apperrors.UnavailableError("store down", errors.New("dial tcp")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apperrors.TypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
				return tt.err
			})

			err := handler(c)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantType, resp.Type)
		})
	}
}

func TestWrapHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		httpErr    *echo.HTTPError
		wantType   apperrors.ErrorType
		wantStatus int
	}{
		{
			name:       "bad_request",
			httpErr:    echo.NewHTTPError(http.StatusBadRequest, "bad request"),
			wantType:   apperrors.TypeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "body_too_large",
			httpErr:    echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too large"),
			wantType:   apperrors.TypeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unauthorized",
			httpErr:    echo.NewHTTPError(http.StatusUnauthorized, "unauthorized"),
			wantType:   apperrors.TypeUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not_found",
			httpErr:    echo.NewHTTPError(http.StatusNotFound, "not found"),
			wantType:   apperrors.TypeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad_gateway",
			httpErr:    echo.NewHTTPError(http.StatusBadGateway, "bad gateway"),
			wantType:   apperrors.TypeExternal,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "service_unavailable",
			httpErr:    echo.NewHTTPError(http.StatusServiceUnavailable, "unavailable"),
			wantType:   apperrors.TypeUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "internal_server_error",
			httpErr:    echo.NewHTTPError(http.StatusInternalServerError, "internal error"),
			wantType:   apperrors.TypeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapHTTPError(tt.httpErr)

			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.wantStatus, err.HTTPStatus())
		})
	}
}

func TestWrapHTTPErrorWithInternalCause(t *testing.T) {
	cause := errors.New("underlying cause")
	httpErr := echo.NewHTTPError(http.StatusInternalServerError, "wrapped")
	httpErr.Internal = cause

	err := WrapHTTPError(httpErr)

	assert.Equal(t, apperrors.TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
}

func TestWrapHTTPErrorWithNonStringMessage(t *testing.T) {
	httpErr := echo.NewHTTPError(http.StatusBadRequest, 12345)

	err := WrapHTTPError(httpErr)

	assert.Equal(t, "internal server error", err.Message) // Fallback message
	assert.Equal(t, apperrors.TypeValidation, err.Type)
}

func TestCorrelationMiddleware_UsesRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")

	var got string
	err := correlationMiddleware(func(c echo.Context) error {
		got, _ = correlation.ID(c.Request().Context())
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "req-123", got)
}

func TestCorrelationMiddleware_GeneratesIDWithoutRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	err := correlationMiddleware(func(c echo.Context) error {
		got, _ = correlation.ID(c.Request().Context())
		return nil
	})(c)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
