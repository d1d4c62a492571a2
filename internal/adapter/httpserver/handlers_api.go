package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/domain"
	apperrors "github.com/pscheid92/mcmotd/internal/platform/errors"
)

type apiResult struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}

type saveConfigRequest struct {
	Auth   domain.Credentials `json:"auth"`
	Config domain.SiteConfig  `json:"config"`
}

type setWebhookRequest struct {
	Auth domain.Credentials `json:"auth"`
}

// decodeBody reads a JSON body. Unknown fields are tolerated so older pages keep working.
func decodeBody(c echo.Context, dst any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(dst); err != nil {
		return apperrors.ValidationError("invalid JSON body").WithField("cause", err.Error())
	}
	return nil
}

func sendResult(c echo.Context, status int, result apiResult) error {
	if err := c.JSON(status, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	var creds domain.Credentials
	if err := decodeBody(c, &creds); err != nil {
		return err
	}

	if !s.auth.Check(c.Request().Context(), creds) {
		return sendResult(c, http.StatusUnauthorized, apiResult{Success: false, Msg: "wrong credentials"})
	}
	return sendResult(c, http.StatusOK, apiResult{Success: true})
}

func (s *Server) handleGetConfig(c echo.Context) error {
	cfg := s.configs.Get(c.Request().Context())
	if err := c.JSON(http.StatusOK, cfg.Redacted()); err != nil {
		return fmt.Errorf("failed to send config: %w", err)
	}
	return nil
}

func (s *Server) handleSaveConfig(c echo.Context) error {
	var req saveConfigRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	err := s.configs.Save(c.Request().Context(), req.Config, req.Auth)
	switch {
	case err == nil:
		return sendResult(c, http.StatusOK, apiResult{Success: true})
	case errors.Is(err, domain.ErrUnauthorized):
		return sendResult(c, http.StatusUnauthorized, apiResult{Success: false})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return apperrors.UnavailableError("config store unavailable", err)
	default:
		return apperrors.InternalError("failed to save config", err)
	}
}

func (s *Server) handleSetWebhook(c echo.Context) error {
	var req setWebhookRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	raw, err := s.webhooks.Register(c.Request().Context(), s.baseURL(c), req.Auth)
	switch {
	case err == nil:
		if err := c.JSONBlob(http.StatusOK, raw); err != nil {
			return fmt.Errorf("failed to send webhook response: %w", err)
		}
		return nil
	case errors.Is(err, domain.ErrUnauthorized):
		return sendResult(c, http.StatusUnauthorized, apiResult{Success: false, Msg: "unauthorized"})
	case errors.Is(err, domain.ErrTokenNotConfigured):
		return sendResult(c, http.StatusBadRequest, apiResult{Success: false, Msg: "Token not set"})
	default:
		slog.WarnContext(c.Request().Context(), "Webhook registration failed", "error", err)
		return apperrors.ExternalError("webhook registration failed", err)
	}
}
