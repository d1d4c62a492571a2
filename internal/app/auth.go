package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/pscheid92/mcmotd/internal/domain"
)

// AuthGuard checks admin credentials against the two stored fields.
// Every failure mode is a plain denial so callers learn nothing about the setup state.
type AuthGuard struct {
	kv domain.KeyValueStore
}

// NewAuthGuard accepts a nil store; every check is then denied.
func NewAuthGuard(kv domain.KeyValueStore) *AuthGuard {
	return &AuthGuard{kv: kv}
}

func (g *AuthGuard) Check(ctx context.Context, creds domain.Credentials) bool {
	if g.kv == nil {
		return false
	}

	user, ok := g.field(ctx, domain.KeyAdminUser)
	if !ok {
		return false
	}
	pass, ok := g.field(ctx, domain.KeyAdminPass)
	if !ok {
		return false
	}

	// evaluate both so timing does not reveal which field was wrong
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(creds.Password)) == 1
	return userOK && passOK
}

func (g *AuthGuard) field(ctx context.Context, key string) (string, bool) {
	value, err := g.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			slog.WarnContext(ctx, "Failed to read admin credentials", "key", key, "error", err)
		}
		return "", false
	}
	return value, value != ""
}
