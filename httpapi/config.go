package httpapi

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oasforge/oasforge/resolver"
)

// Config carries the HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// APIVersion is reported in the API-Version response header on success.
	APIVersion string

	// FetchTimeout bounds each remote document fetch, both for top-level
	// oasUrl loads and for external references during resolution.
	FetchTimeout time.Duration

	// Logger receives request and error logs. Defaults to NopLogger.
	Logger resolver.Logger
}

// ConfigFromEnv builds a Config from the environment, reading a .env file
// first when one exists:
//
//	OASFORGE_ADDR           listen address (default ":8080")
//	OASFORGE_VERSION        API-Version header value (default "1.0.0")
//	OASFORGE_FETCH_TIMEOUT  Go duration for remote fetches (default "30s")
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         ":8080",
		APIVersion:   "1.0.0",
		FetchTimeout: 30 * time.Second,
	}
	if addr := strings.TrimSpace(os.Getenv("OASFORGE_ADDR")); addr != "" {
		cfg.Addr = addr
	}
	if v := strings.TrimSpace(os.Getenv("OASFORGE_VERSION")); v != "" {
		cfg.APIVersion = v
	}
	if raw := strings.TrimSpace(os.Getenv("OASFORGE_FETCH_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}
	return cfg
}
