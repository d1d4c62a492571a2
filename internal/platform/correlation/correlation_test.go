package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewHandler(inner))
}

func TestNewID_IsUUID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", Short("3f2a9c1e-8b7d-4f6a-9e21-0c5d7b3a1f44"))
	assert.Equal(t, "abc", Short("abc"))
	assert.Empty(t, Short(""))
}

func TestID_Roundtrip(t *testing.T) {
	ctx := WithID(context.Background(), "abc12345")
	id, ok := ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc12345", id)
}

func TestID_MissingOrEmpty(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestHandler_AddsShortID(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	ctx := WithID(context.Background(), "0123456789abcdef")
	logger.InfoContext(ctx, "status fetched", "server", "mc.example.net")

	out := buf.String()
	assert.Contains(t, out, "correlation_id=01234567")
	assert.Contains(t, out, "server=mc.example.net")
}

func TestHandler_OmitsWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).InfoContext(context.Background(), "no id")
	assert.NotContains(t, buf.String(), AttrKey)
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With("component", "bot").WithGroup("req")

	ctx := WithID(context.Background(), "attr1234")
	logger.InfoContext(ctx, "grouped", "path", "/api/telegram")

	out := buf.String()
	assert.Contains(t, out, "component=bot")
	assert.Contains(t, out, "req.path=/api/telegram")
	assert.Contains(t, out, "attr1234")
}
