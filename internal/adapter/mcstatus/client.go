package mcstatus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/platform/version"
)

// API selects the upstream generation.
type API string

const (
	APICurrent API = "current"
	APILegacy  API = "legacy"
)

const (
	currentBaseURL = "https://api.mcstatus.io/v2/status/java/"
	legacyBaseURL  = "https://mcapi.us/server/status"

	// favicons are inlined as base64, so payloads can be large
	maxBodyBytes = 2 << 20
)

// Fetcher queries one upstream status API.
type Fetcher struct {
	api     API
	baseURL string
	client  *http.Client
	breaker *breaker
	metrics *metrics.StatusMetrics
	clock   clockwork.Clock
}

var _ domain.StatusFetcher = (*Fetcher)(nil)

type Option func(*fetcherOptions)

type fetcherOptions struct {
	baseURL string
	client  *http.Client
	metrics *metrics.StatusMetrics
	clock   clockwork.Clock
	breaker BreakerConfig
}

// WithBaseURL overrides the upstream endpoint.
func WithBaseURL(u string) Option { return func(o *fetcherOptions) { o.baseURL = u } }

func WithHTTPClient(c *http.Client) Option { return func(o *fetcherOptions) { o.client = c } }

func WithMetrics(m *metrics.StatusMetrics) Option { return func(o *fetcherOptions) { o.metrics = m } }

func WithClock(c clockwork.Clock) Option { return func(o *fetcherOptions) { o.clock = c } }

func WithBreakerConfig(cfg BreakerConfig) Option { return func(o *fetcherOptions) { o.breaker = cfg } }

func NewFetcher(api API, timeout time.Duration, opts ...Option) *Fetcher {
	o := fetcherOptions{
		client:  &http.Client{Timeout: timeout},
		clock:   clockwork.NewRealClock(),
		breaker: DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.baseURL == "" {
		o.baseURL = defaultBaseURL(api)
	}

	return &Fetcher{
		api:     api,
		baseURL: o.baseURL,
		client:  o.client,
		breaker: newBreaker(o.breaker, o.metrics),
		metrics: o.metrics,
		clock:   o.clock,
	}
}

func defaultBaseURL(api API) string {
	if api == APILegacy {
		return legacyBaseURL
	}
	return currentBaseURL
}

// Fetch resolves address. The round-trip time is reported as PingMillis.
func (f *Fetcher) Fetch(ctx context.Context, address string) (domain.ServerStatus, error) {
	start := f.clock.Now()
	status, err := execute(f.breaker, func() (domain.ServerStatus, error) {
		return f.fetch(ctx, address)
	})
	elapsed := f.clock.Since(start)
	f.observe(status, err, elapsed)

	if err != nil {
		return domain.ServerStatus{}, fmt.Errorf("%w: %s: %w", domain.ErrUpstream, address, err)
	}

	ping := int(elapsed.Milliseconds())
	status.PingMillis = &ping
	return status, nil
}

func (f *Fetcher) fetch(ctx context.Context, address string) (domain.ServerStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.requestURL(address), nil)
	if err != nil {
		return domain.ServerStatus{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ServerStatus{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ServerStatus{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ServerStatus{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	payload, err := decodeResponse(body)
	if err != nil {
		return domain.ServerStatus{}, err
	}
	return payload.toStatus(), nil
}

func (f *Fetcher) requestURL(address string) string {
	if f.api == APILegacy {
		sep := "?"
		if strings.Contains(f.baseURL, "?") {
			sep = "&"
		}
		return f.baseURL + sep + "ip=" + url.QueryEscape(address)
	}
	return strings.TrimSuffix(f.baseURL, "/") + "/" + url.PathEscape(address)
}

func (f *Fetcher) observe(status domain.ServerStatus, err error, elapsed time.Duration) {
	if f.metrics == nil {
		return
	}
	result := metrics.ResultOffline
	switch {
	case err != nil:
		result = metrics.ResultError
	case status.Online:
		result = metrics.ResultOnline
	}
	f.metrics.FetchesTotal.WithLabelValues(string(f.api), result).Inc()
	f.metrics.FetchDuration.Observe(elapsed.Seconds())
}

// Resolve applies the card failure policy: any fetch error yields the offline sentinel.
// The error is still returned so callers that care can tell "offline" from "unknown".
func Resolve(ctx context.Context, f domain.StatusFetcher, address string) (domain.ServerStatus, error) {
	status, err := f.Fetch(ctx, address)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "Status fetch failed, using offline sentinel", "server", address, "error", err)
		}
		return domain.UnknownStatus(), err
	}
	return status, nil
}
