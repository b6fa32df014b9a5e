package jsonref

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	t.Run("implements Logger interface", func(t *testing.T) {
		var _ Logger = NopLogger{}
	})

	t.Run("methods do nothing", func(t *testing.T) {
		l := NopLogger{}
		l.Debug("test message", "key", "value")
		l.Info("test message", "key", "value")
		l.Warn("test message", "key", "value")
		l.Error("test message", "key", "value")
	})

	t.Run("With returns same NopLogger", func(t *testing.T) {
		_, ok := NopLogger{}.With("key", "value").(NopLogger)
		assert.True(t, ok, "With should return NopLogger")
	})
}

func newBufferAdapter(level slog.Level) (*SlogAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler)), &buf
}

func TestSlogAdapter(t *testing.T) {
	t.Run("NewSlogAdapter with nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		assert.NotNil(t, adapter.logger)
	})

	t.Run("levels", func(t *testing.T) {
		adapter, buf := newBufferAdapter(slog.LevelDebug)
		adapter.Debug("test debug", "foo", "bar")
		adapter.Info("test info", "count", 42)
		adapter.Warn("test warn", "problem", "something")
		adapter.Error("test error", "err", "failed")

		output := buf.String()
		for _, want := range []string{"level=DEBUG", "foo=bar", "level=INFO", "count=42", "level=WARN", "level=ERROR"} {
			assert.Contains(t, output, want)
		}
	})

	t.Run("With adds attributes", func(t *testing.T) {
		adapter, buf := newBufferAdapter(slog.LevelDebug)
		withAdapter := adapter.With("component", "resolver")
		withAdapter.Debug("test with", "extra", "data")
		assert.Contains(t, buf.String(), "component=resolver")
		assert.Contains(t, buf.String(), "extra=data")

		_, ok := withAdapter.(*SlogAdapter)
		assert.True(t, ok, "With should return *SlogAdapter")
	})
}

func TestResolutionLogging(t *testing.T) {
	adapter, buf := newBufferAdapter(slog.LevelDebug)
	m := replaceMap(t, map[string]any{
		"a": map[string]any{"$ref": "mem:///doc.json#/x"},
		"b": map[string]any{"$ref": "mem:///doc.json#/y"},
		"c": map[string]any{"$ref": "#/missing"},
	}, WithLogger(adapter), WithLoader(func(string) (any, error) {
		return map[string]any{"x": 1, "y": 2}, nil
	}))

	_, err := refAt(t, m, "a").Subject()
	require.NoError(t, err)
	_, err = refAt(t, m, "b").Subject()
	require.NoError(t, err)
	_, err = refAt(t, m, "c").Subject()
	require.Error(t, err)

	output := buf.String()
	assert.Contains(t, output, "replacing references")
	assert.Equal(t, 1, strings.Count(output, `msg="loading document"`))
	assert.Contains(t, output, `msg="document cache hit" uri=mem:///doc.json`)
	assert.Contains(t, output, `msg="resolved reference" ref=mem:///doc.json#/x path=/a`)
	assert.Contains(t, output, `msg="reference resolution failed" ref=#/missing path=/c`)
}

func TestNilLoggerFallsBackToNop(t *testing.T) {
	m := replaceMap(t, map[string]any{"a": 1, "b": map[string]any{"$ref": "#/a"}}, WithLogger(nil))
	_, err := refAt(t, m, "b").Subject()
	assert.NoError(t, err)
}
