package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oasforge/oasforge/oaserrors"
)

const (
	// DefaultFetchTimeout bounds a single document fetch during resolution.
	DefaultFetchTimeout = 20 * time.Second

	// MaxDocumentSize is the maximum size (in bytes) accepted for a fetched
	// document. This prevents resource exhaustion from arbitrarily large
	// remote references. 10MB is sufficient for even very large OpenAPI
	// documents.
	MaxDocumentSize = 10 * 1024 * 1024
)

// Fetcher retrieves the raw text of a document from a URI.
//
// Implementations must honor ctx cancellation and fail closed: no partial
// body is returned on timeout or non-success status.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches documents over HTTP/HTTPS with a bounded timeout.
type HTTPFetcher struct {
	// Client is the HTTP client used for requests. Its Timeout applies per
	// fetch in addition to any deadline on the caller's context.
	Client *http.Client
	// MaxBodySize caps the accepted response size; MaxDocumentSize if zero.
	MaxBodySize int64
	// UserAgent is sent with every request. Defaults to "oasforge" if empty.
	UserAgent string
}

// NewHTTPFetcher creates an HTTPFetcher with the default timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return NewHTTPFetcherWithTimeout(DefaultFetchTimeout)
}

// NewHTTPFetcherWithTimeout creates an HTTPFetcher with a custom per-fetch timeout.
func NewHTTPFetcherWithTimeout(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &oaserrors.FetchError{URL: url, Cause: err}
	}
	ua := f.UserAgent
	if ua == "" {
		ua = "oasforge"
	}
	req.Header.Set("User-Agent", ua)

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &oaserrors.FetchError{URL: url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &oaserrors.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	maxSize := f.MaxBodySize
	if maxSize <= 0 {
		maxSize = MaxDocumentSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, &oaserrors.FetchError{URL: url, Cause: err}
	}
	if int64(len(data)) > maxSize {
		return nil, &oaserrors.FetchError{
			URL:   url,
			Cause: fmt.Errorf("document exceeds maximum size (%d bytes)", maxSize),
		}
	}
	return data, nil
}

// Ensure HTTPFetcher implements Fetcher at compile time.
var _ Fetcher = (*HTTPFetcher)(nil)
