package mcpserver

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearJSONREFEnv clears all JSONREF_* env vars to isolate tests from the ambient environment.
func clearJSONREFEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JSONREF_HTTP_TIMEOUT", "JSONREF_MAX_DOCUMENT_SIZE",
		"JSONREF_MAX_INLINE_SIZE", "JSONREF_ALLOW_PRIVATE_IPS",
		"JSONREF_REFS_LIMIT", "JSONREF_REFS_DETAIL_LIMIT",
		"JSONREF_MAX_LIMIT", "JSONREF_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearJSONREFEnv(t)

	c := loadConfig()

	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(10*1024*1024), c.MaxDocumentSize)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.AllowPrivateIPs)
	assert.Equal(t, 100, c.RefsLimit)
	assert.Equal(t, 25, c.RefsDetailLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, slog.LevelWarn, c.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearJSONREFEnv(t)
	t.Setenv("JSONREF_HTTP_TIMEOUT", "5s")
	t.Setenv("JSONREF_MAX_DOCUMENT_SIZE", "2048")
	t.Setenv("JSONREF_MAX_INLINE_SIZE", "1024")
	t.Setenv("JSONREF_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("JSONREF_REFS_LIMIT", "200")
	t.Setenv("JSONREF_REFS_DETAIL_LIMIT", "50")
	t.Setenv("JSONREF_MAX_LIMIT", "500")
	t.Setenv("JSONREF_LOG_LEVEL", "debug")

	c := loadConfig()

	assert.Equal(t, 5*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(2048), c.MaxDocumentSize)
	assert.Equal(t, int64(1024), c.MaxInlineSize)
	assert.True(t, c.AllowPrivateIPs)
	assert.Equal(t, 200, c.RefsLimit)
	assert.Equal(t, 50, c.RefsDetailLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearJSONREFEnv(t)
	t.Setenv("JSONREF_HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("JSONREF_MAX_DOCUMENT_SIZE", "abc")
	t.Setenv("JSONREF_MAX_INLINE_SIZE", "-1")
	t.Setenv("JSONREF_ALLOW_PRIVATE_IPS", "maybe")
	t.Setenv("JSONREF_REFS_LIMIT", "-5")
	t.Setenv("JSONREF_MAX_LIMIT", "0")
	t.Setenv("JSONREF_LOG_LEVEL", "loud")

	c := loadConfig()

	// Invalid values should fall back to defaults.
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(10*1024*1024), c.MaxDocumentSize)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.AllowPrivateIPs)
	assert.Equal(t, 100, c.RefsLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, slog.LevelWarn, c.LogLevel)
}

func TestLoadConfig_PartialOverrides(t *testing.T) {
	clearJSONREFEnv(t)
	// Only override some values; others stay at defaults.
	t.Setenv("JSONREF_REFS_LIMIT", "42")

	c := loadConfig()

	assert.Equal(t, 42, c.RefsLimit)
	// Unchanged defaults:
	assert.Equal(t, 25, c.RefsDetailLimit)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
}
