package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shopledger/pkg/logger"
)

func TestInitTracingWithoutExporter(t *testing.T) {
	defer goleak.VerifyNone(t)

	tp, shutdown, err := InitTracing(logger.Nop(), Config{ServiceName: "shopledger", Probability: 1.0})
	require.NoError(t, err)

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	assert.Empty(t, GetTraceID(ctx))

	ctx, span := AddSpan(ctx, "purchase")
	id := GetTraceID(ctx)
	span.End()

	assert.Len(t, id, 32)
	assert.NoError(t, shutdown(context.Background()))
}

func TestAddSpanFallsBackToGlobalTracer(t *testing.T) {
	_, shutdown, err := InitTracing(logger.Nop(), Config{ServiceName: "shopledger", Probability: 1.0})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, span := AddSpan(context.Background(), "report")
	defer span.End()
	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestSamplingDisabled(t *testing.T) {
	_, shutdown, err := InitTracing(logger.Nop(), Config{ServiceName: "shopledger", Probability: 0})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, span := AddSpan(context.Background(), "report")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
	// the trace ID is still assigned to unsampled spans
	assert.NotEmpty(t, GetTraceID(ctx))
}
