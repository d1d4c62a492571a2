package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pscheid92/mcmotd/internal/domain"
)

// ConfigStore persists the site configuration as one JSON value. Reads never fail;
// writes require admin credentials and are last-write-wins.
type ConfigStore struct {
	kv   domain.KeyValueStore
	auth *AuthGuard
}

var _ domain.ConfigSource = (*ConfigStore)(nil)

// NewConfigStore accepts a nil store: reads then return defaults and writes are denied.
func NewConfigStore(kv domain.KeyValueStore, auth *AuthGuard) *ConfigStore {
	return &ConfigStore{kv: kv, auth: auth}
}

func (s *ConfigStore) Get(ctx context.Context) domain.SiteConfig {
	if s.kv == nil {
		return domain.DefaultSiteConfig()
	}

	raw, err := s.kv.Get(ctx, domain.KeySiteConfig)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return domain.DefaultSiteConfig()
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to read site config, using defaults", "error", err)
		return domain.DefaultSiteConfig()
	}

	var cfg domain.SiteConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		slog.WarnContext(ctx, "Stored site config is not valid JSON, using defaults", "error", err)
		return domain.DefaultSiteConfig()
	}
	return cfg
}

// Save replaces the stored configuration. A token equal to the masked form handed out by
// the read API keeps the stored token instead of overwriting it with the mask.
func (s *ConfigStore) Save(ctx context.Context, cfg domain.SiteConfig, creds domain.Credentials) error {
	if !s.auth.Check(ctx, creds) {
		return domain.ErrUnauthorized
	}

	cfg = s.restoreMaskedToken(ctx, cfg)

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode site config: %w", err)
	}
	if err := s.kv.Set(ctx, domain.KeySiteConfig, string(data)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "Site config saved", "custom_commands", len(cfg.Bot().CustomCommands))
	return nil
}

func (s *ConfigStore) restoreMaskedToken(ctx context.Context, cfg domain.SiteConfig) domain.SiteConfig {
	if cfg.Telegram == nil || cfg.Telegram.Token == "" {
		return cfg
	}
	current := s.Get(ctx).Bot().Token
	if current == "" || cfg.Telegram.Token != domain.MaskToken(current) {
		return cfg
	}

	bot := *cfg.Telegram
	bot.Token = current
	cfg.Telegram = &bot
	return cfg
}

// SeedCredentials writes the admin credentials unless they already exist, so operator
// changes made through the store survive restarts.
func (s *ConfigStore) SeedCredentials(ctx context.Context, creds domain.Credentials) error {
	if s.kv == nil || creds.Username == "" || creds.Password == "" {
		return nil
	}

	for key, value := range map[string]string{
		domain.KeyAdminUser: creds.Username,
		domain.KeyAdminPass: creds.Password,
	} {
		written, err := s.kv.SetIfAbsent(ctx, key, value)
		if err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		if written {
			slog.InfoContext(ctx, "Seeded admin credential", "key", key)
		}
	}
	return nil
}
