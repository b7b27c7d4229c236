package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("bogus")
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "info", Format: "json", Out: &buf})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("task dispatched", "task", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "task dispatched", rec["msg"])
	assert.EqualValues(t, 3, rec["task"])
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "error", Debug: true, Out: &buf})
	require.NoError(t, err)
	l.Debug("scheduler idle", "last", 1)
	assert.Contains(t, buf.String(), "msg=\"scheduler idle\"")
	assert.Contains(t, buf.String(), "last=1")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.ErrorIs(t, err, ErrInvalidOption)

	_, err = New(Options{Level: "loud"})
	require.ErrorIs(t, err, ErrInvalidOption)

	// debug never consults the level
	_, err = New(Options{Level: "loud", Debug: true})
	require.NoError(t, err)
}
