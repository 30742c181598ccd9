package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpansReachExporter(t *testing.T) {
	req := require.New(t)

	// Given an in-memory exporter installed as the global provider
	exporter := tracetest.NewInMemoryExporter()
	req.NoError(InitWithExporter("pcontainerd", "test", exporter))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	// When one span succeeds and one fails
	_, ok := StartSpan(context.Background(), "verb.JOIN", map[string]string{"caller": "a"})
	EndSpan(ok, nil)
	_, bad := StartSpan(context.Background(), "verb.YIELD", nil)
	EndSpan(bad, errors.New("not a member"))

	// Then both are exported with their attributes and status
	spans := exporter.GetSpans()
	req.Len(spans, 2)
	req.Equal("verb.JOIN", spans[0].Name)
	req.Contains(spans[0].Attributes, attribute.String("caller", "a"))
	req.Equal(codes.Ok, spans[0].Status.Code)
	req.Equal("verb.YIELD", spans[1].Name)
	req.Equal(codes.Error, spans[1].Status.Code)
	req.Equal("not a member", spans[1].Status.Description)
}

func TestNilSpanIsSafe(t *testing.T) {
	var sp *Span
	require.Nil(t, sp.WithAttributes(map[string]string{"k": "v"}))
	sp.SetStatus(errors.New("ignored"))
	EndSpan(nil, nil)
}

func TestInitWithNilExporter(t *testing.T) {
	require.NoError(t, InitWithExporter("pcontainerd", "test", nil))
}
