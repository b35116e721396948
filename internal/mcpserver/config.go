package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/oasforge/oasforge/resolver"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// FetchTimeout bounds each remote document fetch.
	FetchTimeout time.Duration

	// MaxInlineSize caps inline spec content passed through tool inputs.
	MaxInlineSize int64

	// AllowPrivateIPs disables the SSRF guard for URL inputs. Off by
	// default: tool inputs come from AI agents, not trusted operators.
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASFORGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		FetchTimeout:    envDuration("OASFORGE_FETCH_TIMEOUT", resolver.DefaultFetchTimeout),
		MaxInlineSize:   envInt64("OASFORGE_MAX_INLINE_SIZE", resolver.MaxDocumentSize),
		AllowPrivateIPs: envBool("OASFORGE_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
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
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
