package httpserver

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/mcmotd/internal/app"
)

const apiBodyLimit = "64K"

func (s *Server) registerRoutes() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         63072000, // 2 years; only sent over HTTPS
		HSTSPreloadEnabled: true,
		// cards and the page load operator-chosen background images from anywhere
		ContentSecurityPolicy: "default-src 'self'; " +
			"img-src 'self' https: http: data:; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))

	s.echo.GET("/", s.handleRoot)

	s.registerHealthRoutes()
	s.registerAPIRoutes()

	s.echo.POST(app.WebhookPath, s.handleTelegramUpdate)

	if s.metricsHandler != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

func (s *Server) registerAPIRoutes() {
	limited := newRateLimiter(s.config.APIRateLimit, s.config.APIRateBurst)
	api := s.echo.Group("/api", middleware.BodyLimit(apiBodyLimit))

	api.POST("/login", s.handleLogin, limited)
	api.GET("/config", s.handleGetConfig)
	api.POST("/config", s.handleSaveConfig, limited)
	api.POST("/setWebhook", s.handleSetWebhook, limited)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
