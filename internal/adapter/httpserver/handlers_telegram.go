package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/adapter/telegram"
	"github.com/pscheid92/mcmotd/internal/bot"
)

// maxUpdateBytes caps a webhook body. Larger updates are dropped, not rejected.
const maxUpdateBytes = 1 << 20

var webhookAck = map[string]bool{"ok": true}

// handleTelegramUpdate always acknowledges with 200. Telegram retries anything else,
// and a failed reply is not something a retry would fix.
func (s *Server) handleTelegramUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	if !s.validWebhookSecret(c.Request().Header.Get(telegram.SecretHeader)) {
		slog.WarnContext(ctx, "Dropping update with bad secret token", "remote_ip", c.RealIP())
		return s.ackUpdate(c)
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUpdateBytes+1))
	if err != nil {
		slog.InfoContext(ctx, "Dropping unreadable update", "error", err)
		return s.ackUpdate(c)
	}
	if len(body) > maxUpdateBytes {
		slog.WarnContext(ctx, "Dropping oversized update", "limit_bytes", maxUpdateBytes)
		return s.ackUpdate(c)
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		slog.InfoContext(ctx, "Dropping undecodable update", "error", err)
		return s.ackUpdate(c)
	}
	if update.Message == nil {
		return s.ackUpdate(c)
	}

	timeout := s.config.BotProcessingTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := s.clock.Now()
	state, err := s.router.Handle(ctx, bot.Message{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
		Origin: s.baseURL(c),
	})
	if s.botMetrics != nil {
		s.botMetrics.UpdatesTotal.WithLabelValues(string(state)).Inc()
		s.botMetrics.HandleSeconds.Observe(s.clock.Since(start).Seconds())
	}
	if err != nil {
		slog.WarnContext(ctx, "Bot update handling failed",
			"update_id", update.UpdateID, "chat_id", update.Message.Chat.ID, "state", state, "error", err)
	}

	return s.ackUpdate(c)
}

func (s *Server) validWebhookSecret(got string) bool {
	want := s.config.TelegramWebhookSecret
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (s *Server) ackUpdate(c echo.Context) error {
	if err := c.JSON(http.StatusOK, webhookAck); err != nil {
		return fmt.Errorf("failed to acknowledge update: %w", err)
	}
	return nil
}
