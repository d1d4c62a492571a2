package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/platform/version"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// APIError is a reply from the Bot API with "ok": false.
type APIError struct {
	Method      string
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.StatusCode, e.Description)
}

// Client calls the Telegram Bot API. The bot token is passed per call because it
// lives in the editable site configuration.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.BotMetrics
}

func NewClient(baseURL string, m *metrics.BotMetrics) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		metrics: m,
	}
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendPhotoRequest struct {
	ChatID    int64  `json:"chat_id"`
	Photo     string `json:"photo"`
	Caption   string `json:"caption,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (c *Client) SendMessage(ctx context.Context, token string, chatID int64, text, parseMode string) error {
	return c.call(ctx, token, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode})
}

// SendPhoto sends a photo by URL; Telegram downloads it itself.
func (c *Client) SendPhoto(ctx context.Context, token string, chatID int64, photoURL, caption, parseMode string) error {
	return c.call(ctx, token, "sendPhoto", sendPhotoRequest{ChatID: chatID, Photo: photoURL, Caption: caption, ParseMode: parseMode})
}

// SetWebhook registers hookURL and returns the API's JSON reply unchanged, including
// "ok": false replies. Only transport failures and non-JSON bodies are errors.
func (c *Client) SetWebhook(ctx context.Context, token, hookURL, secret string) (json.RawMessage, error) {
	q := url.Values{"url": {hookURL}}
	if secret != "" {
		q.Set("secret_token", secret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL(token, "setWebhook")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build setWebhook request: %w", err)
	}

	body, _, err := c.do(req)
	if err != nil {
		c.relayError("setWebhook")
		return nil, err
	}
	if !json.Valid(body) {
		c.relayError("setWebhook")
		return nil, fmt.Errorf("telegram setWebhook: reply is not JSON")
	}
	return json.RawMessage(body), nil
}

func (c *Client) call(ctx context.Context, token, method string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(token, method), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		c.relayError(method)
		return err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.relayError(method)
		return &APIError{Method: method, StatusCode: status, Description: "unreadable reply"}
	}
	if !resp.OK {
		c.relayError(method)
		return &APIError{Method: method, StatusCode: status, Description: resp.Description}
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("telegram request failed: %w", stripURL(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("read telegram reply: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) methodURL(token, method string) string {
	return c.baseURL + "/bot" + token + "/" + method
}

func (c *Client) relayError(method string) {
	if c.metrics != nil {
		c.metrics.RelayErrors.WithLabelValues(method).Inc()
	}
}

// stripURL drops the request URL from transport errors; it embeds the bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
