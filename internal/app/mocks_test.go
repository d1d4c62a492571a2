package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pscheid92/mcmotd/internal/domain"
)

// memKV is an in-memory KeyValueStore. The Fn fields override single operations.
type memKV struct {
	mu     sync.Mutex
	values map[string]string

	getFn func(ctx context.Context, key string) (string, error)
	setFn func(ctx context.Context, key, value string) error
}

func newMemKV(values map[string]string) *memKV {
	if values == nil {
		values = make(map[string]string)
	}
	return &memKV{values: values}
}

func withAdmin(user, pass string) *memKV {
	return newMemKV(map[string]string{domain.KeyAdminUser: user, domain.KeyAdminPass: pass})
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKV) SetIfAbsent(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

type mockWebhookSetter struct {
	calls        int
	setWebhookFn func(ctx context.Context, token, url, secret string) (json.RawMessage, error)
}

func (m *mockWebhookSetter) SetWebhook(ctx context.Context, token, url, secret string) (json.RawMessage, error) {
	m.calls++
	if m.setWebhookFn != nil {
		return m.setWebhookFn(ctx, token, url, secret)
	}
	return json.RawMessage(`{"ok":true,"result":true,"description":"Webhook was set"}`), nil
}
