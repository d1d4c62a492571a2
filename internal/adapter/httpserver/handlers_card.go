package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/mcmotd/internal/adapter/mcstatus"
	"github.com/pscheid92/mcmotd/internal/card"
	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/platform/version"
)

const (
	defaultPageTitle = "Server Status"
	noMOTD           = "No MOTD"
)

type pageData struct {
	Title                string
	BackgroundURL        string
	DefaultStatusCommand string
	Version              string
}

type infoResponse struct {
	MOTD   string `json:"motd"`
	Online bool   `json:"online"`
}

// handleRoot dispatches on the query: no server renders the page, type=info the JSON
// summary, anything else the SVG card.
func (s *Server) handleRoot(c echo.Context) error {
	server := strings.TrimSpace(c.QueryParam("server"))
	switch {
	case server == "":
		return s.handlePage(c)
	case c.QueryParam("type") == "info":
		return s.handleInfo(c, server)
	default:
		return s.handleCard(c, server)
	}
}

func (s *Server) handlePage(c echo.Context) error {
	cfg := s.configs.Get(c.Request().Context())

	title := cfg.Title
	if title == "" {
		title = defaultPageTitle
	}

	return s.renderTemplate(c, "index.html", pageData{
		Title:                title,
		BackgroundURL:        s.backgroundURL(cfg),
		DefaultStatusCommand: domain.DefaultStatusCommand,
		Version:              version.Get().Version,
	})
}

func (s *Server) handleCard(c echo.Context, server string) error {
	ctx := c.Request().Context()
	cfg := s.configs.Get(ctx)

	params := card.Params{
		Label:         server,
		BackgroundURL: s.backgroundURL(cfg),
		Now:           s.clock.Now(),
		Location:      s.location,
	}

	var svg []byte
	status, err := mcstatus.Resolve(ctx, s.fetcher, server)
	if err != nil {
		svg = card.RenderUnavailable(params)
	} else {
		params.Status = status
		svg = card.RenderStatus(params)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, s.cardCacheControl())
	if err := c.Blob(http.StatusOK, card.ContentType, svg); err != nil {
		return fmt.Errorf("failed to send card: %w", err)
	}
	return nil
}

func (s *Server) handleInfo(c echo.Context, server string) error {
	status, _ := mcstatus.Resolve(c.Request().Context(), s.fetcher, server)

	resp := infoResponse{MOTD: noMOTD, Online: status.Online}
	if status.Online && status.MOTDHTML != "" {
		resp.MOTD = status.MOTDHTML
	}

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send info response: %w", err)
	}
	return nil
}

// backgroundURL appends a millisecond cache buster so image hosts that rotate content are re-fetched.
func (s *Server) backgroundURL(cfg domain.SiteConfig) string {
	base := cfg.BackgroundImageURL
	if base == "" {
		base = s.config.DefaultBackgroundURL
	}
	if base == "" {
		return ""
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "t=" + strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
}

func (s *Server) cardCacheControl() string {
	if s.config.CardCacheMaxAge > 0 {
		return "public, max-age=" + strconv.Itoa(s.config.CardCacheMaxAge)
	}
	return "no-cache"
}
