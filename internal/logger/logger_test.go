package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)

	require.Error(t, SetLevelFromString("loud"))
}

// TestContextLogger ensures named and enriched loggers travel through the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(zapcore.DebugLevel, &buf))
	ctx = WithName(ctx, "libpack")
	ctx = WithKV(ctx, "library", "libfoo.dylib")

	InfoKV(ctx, "Packing", "step", "copy")
	Debugf(ctx, "rewriting %d references", 2)

	out := buf.String()
	require.Contains(t, out, "libpack")
	require.Contains(t, out, "Packing")
	require.Contains(t, out, "libfoo.dylib")
	require.Contains(t, out, "rewriting 2 references")

	require.Same(t, Logger(), FromContext(context.Background()))
}
