package domain

import "context"

// Keys of the external key-value store.
const (
	KeySiteConfig = "SITE_CONFIG"
	KeyAdminUser  = "ADMIN_USER"
	KeyAdminPass  = "ADMIN_PASS"
)

// KeyValueStore is the external configuration collaborator.
// Get returns ErrKeyNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent writes value only when key does not exist and reports whether it wrote.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
}

// ConfigSource is the read side of ConfigStore used by the bot and the card handler.
type ConfigSource interface {
	Get(ctx context.Context) SiteConfig
}
