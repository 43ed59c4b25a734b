package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackTraceHandler_ContextIDs(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo).With(slog.String("component", "crawler"))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithRunID(ctx, "run-1")

	log.InfoContext(ctx, "stage done")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "run-1", record["run_id"])
	assert.Equal(t, "crawler", record["component"])
	assert.NotContains(t, record, "stack_trace")
	assert.Equal(t, "run-1", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))
}

func TestStackTraceHandler_ErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.ErrorContext(context.Background(), "attempt failed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Contains(t, record["stack_trace"], "goroutine")
	assert.NotContains(t, record, "run_id")
}
