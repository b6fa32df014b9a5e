package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/jsonref/loader"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Loading limits.
	HTTPTimeout     time.Duration
	MaxDocumentSize int64
	MaxInlineSize   int64
	AllowPrivateIPs bool

	// Refs tool defaults.
	RefsLimit       int
	RefsDetailLimit int
	MaxLimit        int

	// Server log level (stderr).
	LogLevel slog.Level
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from JSONREF_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		HTTPTimeout:     envDuration("JSONREF_HTTP_TIMEOUT", loader.DefaultHTTPTimeout),
		MaxDocumentSize: envInt64("JSONREF_MAX_DOCUMENT_SIZE", loader.DefaultMaxDocumentSize),
		MaxInlineSize:   envInt64("JSONREF_MAX_INLINE_SIZE", 10*1024*1024),
		AllowPrivateIPs: envBool("JSONREF_ALLOW_PRIVATE_IPS", false),
		RefsLimit:       envInt("JSONREF_REFS_LIMIT", 100),
		RefsDetailLimit: envInt("JSONREF_REFS_DETAIL_LIMIT", 25),
		MaxLimit:        envInt("JSONREF_MAX_LIMIT", 1000),
		LogLevel:        envLevel("JSONREF_LOG_LEVEL", slog.LevelWarn),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return level
}
