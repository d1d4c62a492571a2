package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pscheid92/mcmotd/internal/domain"
)

// WebhookPath is where the chat relay delivers updates.
const WebhookPath = "/api/telegram"

// WebhookSetter is the relay call used for registration.
type WebhookSetter interface {
	SetWebhook(ctx context.Context, token, url, secret string) (json.RawMessage, error)
}

// WebhookRegistrar points the chat relay at this deployment.
type WebhookRegistrar struct {
	configs       domain.ConfigSource
	auth          *AuthGuard
	relay         WebhookSetter
	fallbackToken string
	secret        string
}

func NewWebhookRegistrar(configs domain.ConfigSource, auth *AuthGuard, relay WebhookSetter, fallbackToken, secret string) *WebhookRegistrar {
	return &WebhookRegistrar{
		configs:       configs,
		auth:          auth,
		relay:         relay,
		fallbackToken: fallbackToken,
		secret:        secret,
	}
}

// Register calls setWebhook with baseURL + WebhookPath and returns the relay's JSON verbatim.
// Without a token it fails with ErrTokenNotConfigured before any outbound call.
func (r *WebhookRegistrar) Register(ctx context.Context, baseURL string, creds domain.Credentials) (json.RawMessage, error) {
	if !r.auth.Check(ctx, creds) {
		return nil, domain.ErrUnauthorized
	}

	token := r.configs.Get(ctx).Bot().ResolveToken(r.fallbackToken)
	if token == "" {
		return nil, domain.ErrTokenNotConfigured
	}

	url := strings.TrimSuffix(baseURL, "/") + WebhookPath
	body, err := r.relay.SetWebhook(ctx, token, url, r.secret)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Webhook registered", "url", url)
	return body, nil
}
