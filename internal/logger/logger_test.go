package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLogger_ChainAttributes(t *testing.T) {
	buf := captureDefault(t)

	New("repo").File("pension").Function("Create").Info("created", "id", "abc")

	out := buf.String()
	assert.Contains(t, out, "component=repo")
	assert.Contains(t, out, "file=pension")
	assert.Contains(t, out, "function=Create")
	assert.Contains(t, out, "id=abc")
	assert.Contains(t, out, "msg=created")
}

func TestLogger_ErrWrapsCause(t *testing.T) {
	buf := captureDefault(t)
	cause := errors.New("disk full")

	err := New("db").Function("Save").Err("failed to save", cause, "table", "admins")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save: disk full", err.Error())
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "table=admins")
}

func TestLogger_ErrorReturnsMessage(t *testing.T) {
	captureDefault(t)

	err := New("db").Error("database path is empty", "dbPath", "")
	assert.EqualError(t, err, "database path is empty")

	err = New("db").ErrMsg("nil check failed")
	assert.EqualError(t, err, "nil check failed")
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	buf := captureDefault(t)

	base := New("svc")
	_ = base.With("request", "1")
	base.Info("plain")

	assert.NotContains(t, buf.String(), "request=1")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}
