package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_RoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestFromContext_MissingLoggerReturnsNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	// Logging through the fallback must not panic.
	l.Info("noop")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestTraceCorrelation_NoSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))

	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(ctx, base))
}
