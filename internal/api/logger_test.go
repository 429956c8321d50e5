package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "course-service", slog.LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "course-service", record["service"])
	require.Equal(t, "test", record["component"])
	require.Equal(t, traceID.String(), record["trace_id"])
	require.Equal(t, spanID.String(), record["span_id"])
}

func TestNewLogger_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "course-service", slog.LevelInfo).Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.NotContains(t, record, "trace_id")
}

func TestNewLogger_DropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "course-service", slog.LevelWarn)

	logger.Info("quiet")
	require.Zero(t, buf.Len())

	logger.Warn("loud")
	require.Contains(t, buf.String(), `"msg":"loud"`)
}

func TestSetupGlobalHandler_InvalidLevel(t *testing.T) {
	require.Error(t, SetupGlobalHandler("course-service", "chatty"))
}
