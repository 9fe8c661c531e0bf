package tracing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceparentRoundTrip(t *testing.T) {
	ctx := context.Background()
	tp, err := Init(ctx, "test", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	spanCtx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	tparent := Traceparent(spanCtx)
	require.NotEmpty(t, tparent)
	assert.Contains(t, tparent, span.SpanContext().TraceID().String())

	restored := ContextFromTraceparent(ctx, tparent)
	assert.Equal(t, tparent, Traceparent(restored))

	headers := InjectKafkaHeaders(restored, []kafka.Header{{Key: "event_type", Value: []byte("X")}})
	var found bool
	for _, h := range headers {
		if h.Key == TraceparentHeader {
			found = true
			assert.Equal(t, tparent, string(h.Value))
		}
	}
	assert.True(t, found)
}

func TestTraceparent_NoSpan(t *testing.T) {
	assert.Empty(t, Traceparent(context.Background()))
	ctx := context.Background()
	assert.Equal(t, ctx, ContextFromTraceparent(ctx, ""))
}
