package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testTraceIDHex = "4bf92f3577b34da6a3ce929d0e0e4736"
	testSpanIDHex  = "00f067aa0ba902b7"
)

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex(testTraceIDHex)
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex(testSpanIDHex)
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	t.Run("returns the attached logger", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)

		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns a nop logger when nothing is attached", func(t *testing.T) {
		log := FromContext(context.Background())

		require.NotNil(t, log)
		assert.NotPanics(t, func() { log.Info("reconciliation finished") })
	})
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx, tagged := WithRequestID(context.Background(), zap.New(core), "req-lines-replace")
	tagged.Info("replacing document lines")

	assert.Equal(t, "req-lines-replace", GetRequestID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-lines-replace", fieldString(t, logs.All()[0], "request_id"))

	// The tagged logger is also the one stored in the context
	assert.Same(t, tagged, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx, tagged := WithUserID(context.Background(), zap.New(core), "storekeeper-1")
	tagged.Info("document approved")

	assert.Equal(t, "storekeeper-1", GetUserID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "storekeeper-1", fieldString(t, logs.All()[0], "user_id"))
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestTraceIDs(t *testing.T) {
	t.Run("extracts ids from a valid span context", func(t *testing.T) {
		ctx := tracedContext(t)

		assert.Equal(t, testTraceIDHex, GetTraceID(ctx))
		assert.Equal(t, testSpanIDHex, GetSpanID(ctx))
	})

	t.Run("empty without an active span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})
}

func TestWithTraceContext(t *testing.T) {
	t.Run("tags trace and span ids", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		log := WithTraceContext(tracedContext(t), zap.New(core))
		log.Info("stock movement recorded")

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, testTraceIDHex, fieldString(t, entry, "trace_id"))
		assert.Equal(t, testSpanIDHex, fieldString(t, entry, "span_id"))
	})

	t.Run("returns the logger unchanged without a span", func(t *testing.T) {
		log := zap.NewNop()

		assert.Same(t, log, WithTraceContext(context.Background(), log))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("folds in trace, request and user identity", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		ctx := tracedContext(t)
		ctx, _ = WithRequestID(ctx, zap.New(core), "req-9")
		ctx = context.WithValue(ctx, UserIDKey, "storekeeper-1")

		L(ctx).Info("document reconciled", zap.String("number", "BS-2026-00003"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "document reconciled", entry.Message)
		assert.Equal(t, testTraceIDHex, fieldString(t, entry, "trace_id"))
		assert.Equal(t, "req-9", fieldString(t, entry, "request_id"))
		assert.Equal(t, "storekeeper-1", fieldString(t, entry, "user_id"))
		assert.Equal(t, "BS-2026-00003", fieldString(t, entry, "number"))
	})

	t.Run("With carries extra fields into every entry", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		cl := WithLogger(context.Background(), zap.New(core)).
			With(zap.String("direction", "outbound"))
		cl.Warn("insufficient stock", zap.String("article_code", "CART-ENC"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "outbound", fieldString(t, entry, "direction"))
		assert.Equal(t, "CART-ENC", fieldString(t, entry, "article_code"))
	})

	t.Run("nil logger degrades to nop", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}

		assert.NotPanics(t, func() { cl.Error("orphaned entry") })
	})

	t.Run("Zap returns an enriched plain logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-zap")
		L(ctx).Zap().Debug("low stock scan")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-zap", fieldString(t, logs.All()[0], "request_id"))
	})
}
