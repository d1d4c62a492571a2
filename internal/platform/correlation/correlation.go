// Package correlation carries a per-request ID through context and into log records.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// AttrKey is the log attribute name the Handler adds.
const AttrKey = "correlation_id"

type contextKey struct{}

// NewID returns a fresh random ID.
func NewID() string {
	return uuid.NewString()
}

// Short trims an ID to its first eight characters for compact log lines.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID returns the ID stored in ctx; ok is false when absent or empty.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Handler decorates another slog.Handler and appends the context's correlation ID to every record.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String(AttrKey, Short(id)))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewHandler(h.inner.WithAttrs(attrs))
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return NewHandler(h.inner.WithGroup(name))
}
