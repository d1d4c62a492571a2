package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/bot"
	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/platform/config"
)

// --- Mock implementations ---

type mockConfigService struct {
	getFn  func(ctx context.Context) domain.SiteConfig
	saveFn func(ctx context.Context, cfg domain.SiteConfig, creds domain.Credentials) error
}

func (m *mockConfigService) Get(ctx context.Context) domain.SiteConfig {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return domain.DefaultSiteConfig()
}

func (m *mockConfigService) Save(ctx context.Context, cfg domain.SiteConfig, creds domain.Credentials) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, cfg, creds)
	}
	return nil
}

type mockAuth struct {
	checkFn func(ctx context.Context, creds domain.Credentials) bool
}

func (m *mockAuth) Check(ctx context.Context, creds domain.Credentials) bool {
	if m.checkFn != nil {
		return m.checkFn(ctx, creds)
	}
	return false
}

type mockWebhooks struct {
	registerFn func(ctx context.Context, baseURL string, creds domain.Credentials) (json.RawMessage, error)
}

func (m *mockWebhooks) Register(ctx context.Context, baseURL string, creds domain.Credentials) (json.RawMessage, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, baseURL, creds)
	}
	return nil, errors.New("not implemented")
}

type mockRouter struct {
	handleFn func(ctx context.Context, msg bot.Message) (bot.State, error)
}

func (m *mockRouter) Handle(ctx context.Context, msg bot.Message) (bot.State, error) {
	if m.handleFn != nil {
		return m.handleFn(ctx, msg)
	}
	return bot.Ignore, nil
}

type mockFetcher struct {
	fetchFn func(ctx context.Context, address string) (domain.ServerStatus, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, address string) (domain.ServerStatus, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, address)
	}
	return domain.ServerStatus{}, domain.ErrUpstream
}

// --- Test helpers ---

var testNow = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("index.html").Parse(`Page {{.Title}} {{.DefaultStatusCommand}}`))

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			BotProcessingTimeout: 5 * time.Second,
			APIRateLimit:         100,
			APIRateBurst:         100,
		},
		configs:   &mockConfigService{},
		auth:      &mockAuth{},
		webhooks:  &mockWebhooks{},
		router:    &mockRouter{},
		fetcher:   &mockFetcher{},
		templates: tmpl,
		clock:     clockwork.NewFakeClockAt(testNow),
		location:  time.UTC,
		startTime: testNow,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withConfig(fn func(*config.Config)) func(*Server) {
	return func(s *Server) { fn(s.config) }
}

func withConfigs(c configService) func(*Server) {
	return func(s *Server) { s.configs = c }
}

func withAuth(a authChecker) func(*Server) {
	return func(s *Server) { s.auth = a }
}

func withWebhooks(w webhookRegistrar) func(*Server) {
	return func(s *Server) { s.webhooks = w }
}

func withRouter(r botRouter) func(*Server) {
	return func(s *Server) { s.router = r }
}

func withFetcher(f domain.StatusFetcher) func(*Server) {
	return func(s *Server) { s.fetcher = f }
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

func onlineStatus() domain.ServerStatus {
	ping := 42
	return domain.ServerStatus{
		Online:        true,
		Version:       "Paper 1.21.4",
		MOTDClean:     "Welcome home",
		MOTDHTML:      `<span style="color: #55FF55">Welcome</span> home`,
		PlayersOnline: 2,
		PlayersMax:    20,
		Players:       []domain.Player{{Name: "Steve"}, {Name: "Alex"}},
		PingMillis:    &ping,
	}
}
