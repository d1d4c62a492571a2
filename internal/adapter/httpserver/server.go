package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/bot"
	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/platform/config"
	"github.com/pscheid92/mcmotd/web"
)

type configService interface {
	Get(ctx context.Context) domain.SiteConfig
	Save(ctx context.Context, cfg domain.SiteConfig, creds domain.Credentials) error
}

type authChecker interface {
	Check(ctx context.Context, creds domain.Credentials) bool
}

type webhookRegistrar interface {
	Register(ctx context.Context, baseURL string, creds domain.Credentials) (json.RawMessage, error)
}

type botRouter interface {
	Handle(ctx context.Context, msg bot.Message) (bot.State, error)
}

// Deps are the collaborators the HTTP surface dispatches to.
type Deps struct {
	Configs  configService
	Auth     authChecker
	Webhooks webhookRegistrar
	Router   botRouter
	Fetcher  domain.StatusFetcher

	HTTPMetrics    *metrics.HTTPMetrics
	BotMetrics     *metrics.BotMetrics
	MetricsHandler http.Handler

	Clock clockwork.Clock
	// Location is the zone of the card footer timestamp.
	Location *time.Location
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	configs  configService
	auth     authChecker
	webhooks webhookRegistrar
	router   botRouter
	fetcher  domain.StatusFetcher

	httpMetrics    *metrics.HTTPMetrics
	botMetrics     *metrics.BotMetrics
	metricsHandler http.Handler

	templates    *template.Template
	clock        clockwork.Clock
	location     *time.Location
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, deps Deps, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	location := deps.Location
	if location == nil {
		location = time.UTC
	}

	srv := &Server{
		echo:           e,
		config:         cfg,
		configs:        deps.Configs,
		auth:           deps.Auth,
		webhooks:       deps.Webhooks,
		router:         deps.Router,
		fetcher:        deps.Fetcher,
		httpMetrics:    deps.HTTPMetrics,
		botMetrics:     deps.BotMetrics,
		metricsHandler: deps.MetricsHandler,
		templates:      templates,
		clock:          clock,
		location:       location,
		healthChecks:   healthChecks,
		startTime:      clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

// baseURL is the origin this deployment is reachable under. PUBLIC_BASE_URL wins over
// the request-derived origin.
func (s *Server) baseURL(c echo.Context) string {
	if s.config.PublicBaseURL != "" {
		return strings.TrimSuffix(s.config.PublicBaseURL, "/")
	}

	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	if fwdProto := c.Request().Header.Get(echo.HeaderXForwardedProto); fwdProto == "http" || fwdProto == "https" {
		scheme = fwdProto
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request().Host)
}
