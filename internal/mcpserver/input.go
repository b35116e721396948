package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/oasforge/oasforge/resolver"
)

// specInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a document file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// newFetcher builds the fetcher used for URL inputs and for external
// references during resolution, honoring the SSRF guard unless private IPs
// were explicitly allowed.
func newFetcher() resolver.Fetcher {
	if cfg.AllowPrivateIPs {
		return resolver.NewHTTPFetcherWithTimeout(cfg.FetchTimeout)
	}
	return &resolver.HTTPFetcher{Client: newSafeHTTPClient()}
}

// load returns the document text plus the source URL to resolve relative
// references against ("" for file and inline inputs).
func (s specInput) load(ctx context.Context) ([]byte, string, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, "", fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	switch {
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read spec file: %w", err)
		}
		return data, "", nil

	case s.URL != "":
		data, err := newFetcher().Fetch(ctx, s.URL)
		if err != nil {
			return nil, "", err
		}
		return data, s.URL, nil

	default:
		if int64(len(s.Content)) > cfg.MaxInlineSize {
			return nil, "", fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASFORGE_MAX_INLINE_SIZE to increase",
				len(s.Content), cfg.MaxInlineSize)
		}
		return []byte(s.Content), "", nil
	}
}
